package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CanvasAction is a keyboard command understood by the canvas view.
type CanvasAction int

const (
	CanvasActionNone CanvasAction = iota
	CanvasActionQuit
	CanvasActionBack
	CanvasActionPause
	CanvasActionStep
	CanvasActionReset
	CanvasActionStatus
	CanvasActionScreenshot
)

// KeyMapper translates Bubble Tea key messages to canvas and menu actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a canvas action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) CanvasAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return CanvasActionQuit
	case "b", "esc":
		return CanvasActionBack
	case "p", " ":
		return CanvasActionPause
	case "n", ".": // single tick while paused
		return CanvasActionStep
	case "r":
		return CanvasActionReset
	case "s":
		return CanvasActionStatus
	case "ctrl+s":
		return CanvasActionScreenshot
	}
	return CanvasActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionStats
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionStats
	}

	return MenuActionNone
}
