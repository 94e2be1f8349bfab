package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
	"github.com/aretw0/daybook/internal/platform"
	"github.com/aretw0/daybook/pkg/adapters/fs"
	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the data directory, stores and recorder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx, daybook.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		// Probe the recorder so its state is part of the report.
		app.Session()
		state, ok := app.State().(platform.AppState)
		if !ok {
			return fmt.Errorf("unexpected state type %T", app.State())
		}

		out := cmd.OutOrStdout()
		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "daybook"
			config.SecondaryLabel = "Daybook Topology"
			fmt.Fprintln(out, introspection.TreeDiagram(buildTree(state), config))
			return nil
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	},
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildTree maps component state onto introspection diagram nodes.
// Status values follow introspection.DefaultStyles().
func buildTree(state platform.AppState) statusNode {
	root := statusNode{
		Name:     "Daybook",
		Status:   "running",
		Metadata: map[string]string{"type": "container", "path": state.Path},
	}

	if repo, ok := state.Repository.(fs.RepositoryState); ok {
		watcher := "suspended"
		if repo.WatcherActive {
			watcher = "running"
		}
		root.Children = append(root.Children, statusNode{
			Name:   "Repository",
			Status: "running",
			Metadata: map[string]string{
				"type":    "process",
				"format":  repo.Format,
				"gitless": strconv.FormatBool(repo.Gitless),
			},
			Children: []statusNode{{Name: "Watcher", Status: watcher, Metadata: map[string]string{"type": "goroutine"}}},
		})
	}

	for _, s := range []any{state.Notes, state.Tasks} {
		cs, ok := s.(core.CollectionState)
		if !ok {
			continue
		}
		status := "running"
		if cs.Dirty {
			status = "failed"
		}
		root.Children = append(root.Children, statusNode{
			Name:     cs.Key,
			Status:   status,
			Metadata: map[string]string{"type": "container", "entries": strconv.Itoa(cs.Count)},
		})
	}

	if rec, ok := state.Recording.(recording.SessionState); ok {
		status := "suspended"
		switch {
		case !rec.Supported:
			status = "stopped"
		case rec.State == recording.StateRecording:
			status = "running"
		case rec.State == recording.StatePending:
			status = "pending"
		}
		root.Children = append(root.Children, statusNode{
			Name:     "Recorder",
			Status:   status,
			Metadata: map[string]string{"type": "process", "format": rec.Format, "state": string(rec.State)},
		})
	}
	return root
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
