package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
	"github.com/aretw0/daybook/pkg/recording"
	"github.com/aretw0/daybook/pkg/render"
)

var (
	toTaskSave   bool
	exportOutput string
)

var notesCmd = &cobra.Command{
	Use:     "notes",
	Aliases: []string{"note"},
	Short:   "List and manage voice notes",
	Args:    cobra.NoArgs,
	RunE:    runNotesList,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List voice notes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runNotesList,
}

func runNotesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(ctx, app)
	return renderer(cmd.OutOrStdout()).Notes(app.Notes.List())
}

var notesDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a voice note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		note, err := app.ResolveNote(args[0])
		if err != nil {
			return err
		}
		ctx = changeReason(ctx, daybook.CommitTypeChore, "notes", "delete "+note.Title)
		app.Notes.Remove(ctx, note.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Voice note deleted: %s\n", note.Title)
		return nil
	},
}

var notesToTaskCmd = &cobra.Command{
	Use:   "to-task [id]",
	Short: "Prefill a high-priority task from a voice note",
	Long: `To-task copies the note's title and notes into a task draft with a link
back to the recording. The draft is only saved with --save.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		if toTaskSave {
			ctx = changeReason(ctx, daybook.CommitTypeFeat, "tasks", "add task from voice note")
		}
		draft, task, err := app.NoteToTask(ctx, args[0], toTaskSave)
		if err != nil {
			return err
		}
		r := renderer(cmd.OutOrStdout())
		if task != nil {
			return r.Task(*task)
		}
		return r.Draft(draft)
	},
}

var notesExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Write a voice note's audio to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx, daybook.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		note, err := app.ResolveNote(args[0])
		if err != nil {
			return err
		}
		mime, data, err := recording.DecodeDataURL(note.AudioData)
		if err != nil {
			return fmt.Errorf("voice note %s: %w", render.ShortID(note.ID), err)
		}

		out := exportOutput
		if out == "" {
			out = exportName(note.Title, note.ID) + recording.Extension(mime)
		}
		if out == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d bytes to %s\n", len(data), out)
		return nil
	},
}

var notesPlayCmd = &cobra.Command{
	Use:   "play [id]",
	Short: "Play a voice note with ffplay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx, daybook.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		note, err := app.ResolveNote(args[0])
		if err != nil {
			return err
		}
		player := recording.Player{Binary: cfg.Playback.FFplay}
		if !player.Available() {
			return fmt.Errorf("ffplay not found; use 'daybook notes export' and a player of your choice")
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Playing %q...\n", note.Title)
		return player.Play(ctx, note.AudioData)
	},
}

// exportName derives a file name from a note title.
func exportName(title, id string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ', r == ':', r == '.':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(title))
	if name == "" {
		name = render.ShortID(id)
	}
	return filepath.Base(name)
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd, notesDeleteCmd, notesToTaskCmd, notesExportCmd, notesPlayCmd)
	notesToTaskCmd.Flags().BoolVar(&toTaskSave, "save", false, "Add the task instead of only printing the draft")
	notesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file ('-' for stdout)")
}
