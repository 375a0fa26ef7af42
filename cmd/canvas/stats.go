package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-canvas/internal/storage"
)

var flagClear bool

var statsCmd = &cobra.Command{
	Use:   "stats [scene]",
	Short: "Show recorded session statistics",
	Long: `Display session totals for every scene, or the recent sessions of one
scene when an id is given.

Examples:
  canvas stats
  canvas stats bounce
  canvas stats drag --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded sessions of the scene")
}

func runStats(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening session database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printAllStats(store)
	}

	sceneID := args[0]
	reg := catalogue()
	if !reg.Exists(sceneID) {
		fmt.Fprintln(os.Stderr, "Run 'canvas list' to see available scenes.")
		return fmt.Errorf("unknown scene %q", sceneID)
	}

	if flagClear {
		if err := store.ClearSessions(sceneID); err != nil {
			return err
		}
		fmt.Printf("Cleared sessions of %s.\n", sceneID)
		return nil
	}

	return printSceneStats(store, sceneID)
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllScenesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Printf("  %-10s  %8s  %8s  %6s  %6s  %6s  %8s  %s\n",
		"Scene", "Sessions", "Ticks", "Taps", "Drags", "Flings", "Hits", "Last run")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-10s  %8d  %8d  %6d  %6d  %6d  %8d  %s\n",
			id, st.Sessions, st.TotalTicks, st.TotalTaps, st.TotalDrags, st.TotalFlings,
			st.TotalCollisions, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSceneStats(store *storage.Store, sceneID string) error {
	sessions, err := store.RecentSessions(sceneID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("Recent sessions - %s\n", sceneID)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'canvas run %s' to record one.\n", sceneID)
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %6s  %5s  %5s  %6s  %6s  %7s\n",
		"Date", "User", "Time", "Taps", "Drags", "Flings", "Hits", "Bounces")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-10s  %3d:%02d  %5d  %5d  %6d  %6d  %7d\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.User, s.Duration/60, s.Duration%60,
			s.Taps, s.Drags, s.Flings, s.Collisions, s.Bounces)
	}

	summary, err := store.GetSceneStats(sceneID)
	if err == nil && summary.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Total: %d sessions, %d ticks, most hits in one session: %d\n",
			summary.Sessions, summary.TotalTicks, summary.MostCollisions)
	}
	return nil
}
