package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/config"
	"github.com/narender4sm/inspector-assistant/internal/pathutil"
	"github.com/narender4sm/inspector-assistant/internal/store"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversation transcripts",
}

var sessionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		basePath, err := storePath()
		if err != nil {
			return err
		}

		indexPath := filepath.Join(basePath, "index.json")
		data, err := os.ReadFile(indexPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("No sessions found.")
				fmt.Println("\nRun 'inspector run' to create your first session.")
				return nil
			}
			return fmt.Errorf("failed to read session index: %w", err)
		}

		var index store.SessionIndex
		if err := json.Unmarshal(data, &index); err != nil {
			return fmt.Errorf("failed to parse session index: %w", err)
		}
		if len(index.Sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		sessions := make([]store.SessionMeta, 0, len(index.Sessions))
		for _, meta := range index.Sessions {
			sessions = append(sessions, meta)
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
		})

		purple := lipgloss.Color("99")
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return lipgloss.NewStyle().Foreground(purple).Bold(true).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("ID", "Turns", "Updated")

		for _, meta := range sessions {
			t.Row(meta.ID, fmt.Sprintf("%d", meta.Turns), meta.UpdatedAt.Local().Format(time.DateTime))
		}

		fmt.Println(t)
		fmt.Printf("\nTotal: %d session(s)\n", len(sessions))
		return nil
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		lockTimeout, err := parseLockTimeout()
		if err != nil {
			return err
		}

		basePath, err := storePath()
		if err != nil {
			return err
		}

		worker, err := store.NewWorker(basePath, store.RuntimeConfig{LockTimeout: lockTimeout})
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		worker.Start()
		defer worker.Stop()

		if err := worker.DeleteSession(sessionID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		fmt.Printf("Session '%s' deleted.\n", sessionID)
		return nil
	},
}

func parseLockTimeout() (time.Duration, error) {
	lockTimeout, err := config.DurationOrDefault(cfg.Store.LockTimeout, config.DefaultStoreLockTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid store lock timeout %q: %w", cfg.Store.LockTimeout, err)
	}
	return lockTimeout, nil
}

func storePath() (string, error) {
	resolved, err := pathutil.Expand(cfg.Store.Path)
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}
	return resolved, nil
}

// quickLock is used by commands that touch store files without a worker.
func quickLock(basePath string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(basePath, "store.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("store is locked by another inspector instance")
	}
	return lock, nil
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		basePath, err := storePath()
		if err != nil {
			return err
		}

		lock, err := quickLock(basePath)
		if err != nil {
			return err
		}
		defer lock.Unlock()

		path := filepath.Join(basePath, args[0]+".jsonl")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("session '%s' not found", args[0])
			}
			return err
		}

		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsLsCmd)
	sessionsCmd.AddCommand(sessionsRmCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd)
}
