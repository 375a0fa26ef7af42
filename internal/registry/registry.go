// Package registry keeps the catalogue of canvas scenes. A Registry is an
// ordinary value owned by whoever builds it, so tests and servers can hold
// independent catalogues.
package registry

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

var (
	// ErrDuplicate is returned when registering an id twice.
	ErrDuplicate = errors.New("registry: scene already registered")
	// ErrUnknown is returned when creating an unregistered scene.
	ErrUnknown = errors.New("registry: unknown scene")
)

// Look is how a sprite is drawn on a terminal.
type Look struct {
	Glyph rune
	Color core.Color
}

// Scene populates a surface with sprites and gives them behaviour.
// Scenes contain no terminal code; the platform handles input mapping,
// timing and rendering.
type Scene interface {
	// ID returns a unique identifier for this scene (e.g., "bounce").
	// Used for CLI commands and session storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Setup places the scene's sprites on an empty surface.
	Setup(surf *surface.Surface, cfg config.SceneConfig, rng *rand.Rand) error

	// Look returns how sp is drawn.
	Look(sp *sprite.Sprite) Look
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

// Registry maps scene ids to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	titles    map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		titles:    make(map[string]string),
	}
}

// Register adds a scene factory to the registry.
func (r *Registry) Register(id string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, id)
	}

	r.factories[id] = f

	// Get title by creating a temporary instance
	r.titles[id] = f().Title()
	return nil
}

// List returns information about all registered scenes, sorted by ID.
func (r *Registry) List() []SceneInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SceneInfo, 0, len(r.factories))
	for id := range r.factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: r.titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID.
func (r *Registry) Create(id string) (Scene, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, id)
	}

	return f(), nil
}

// Exists checks if a scene with the given ID is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[id]
	return ok
}

// SinkFor returns the surface-level gesture sink of scene, or a sink that
// ignores everything when the scene does not listen to the surface.
func SinkFor(scene Scene) surface.Sink {
	if sink, ok := scene.(surface.Sink); ok {
		return sink
	}
	return surface.NopSink{}
}
