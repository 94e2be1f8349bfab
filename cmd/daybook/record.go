package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
	"github.com/aretw0/daybook/pkg/recording"
)

var (
	recordTitle       string
	recordDescription string
	recordYes         bool
	recordMax         time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a voice note from the microphone",
	Long: `Record captures audio until you press Enter (or Ctrl+C), then asks for a
title and notes before saving. A blank title becomes "Voice note HH:MM".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stderr := cmd.ErrOrStderr()

		app, err := openApp(ctx, daybook.WithRecordingObserver(func(tr recording.Transition) {
			if tr.From != tr.To && tr.Status != "" {
				fmt.Fprintln(stderr, tr.Status)
			}
		}))
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		session := app.Session()
		if !session.Supported() {
			return &recording.CaptureError{Reason: recording.ReasonUnsupported}
		}

		sigCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stopSignals()

		if err := session.Start(sigCtx); err != nil {
			return err
		}

		input := newLineReader(cmd.InOrStdin(), stderr)
		fmt.Fprintln(stderr, "Press Enter to stop.")
		waitCtx := sigCtx
		if recordMax > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(sigCtx, recordMax)
			defer cancel()
		}
		input.waitForStop(waitCtx, recordMax > 0)
		interrupted := sigCtx.Err() != nil
		// A second Ctrl+C now terminates as usual; the unsaved draft is lost.
		stopSignals()

		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		if err := session.Stop(stopCtx); err != nil {
			return err
		}
		slog.Debug("recording stopped", "interrupted", interrupted)

		title, description := recordTitle, recordDescription
		if !recordYes {
			save, err := promptDraft(ctx, input, &title, &description)
			if err != nil {
				return err
			}
			if !save {
				session.Discard()
				return nil
			}
		}

		saveCtx := changeReason(ctx, daybook.CommitTypeFeat, "notes", "record voice note")
		note, err := session.Save(saveCtx, title, description)
		if err != nil {
			return err
		}
		return renderer(cmd.OutOrStdout()).Note(note)
	},
}

func promptDraft(ctx context.Context, input *lineReader, title, description *string) (bool, error) {
	var err error
	if *title == "" {
		if *title, err = input.ask(ctx, "Title (blank for timestamp): "); err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
	}
	if *description == "" {
		if *description, err = input.ask(ctx, "Notes (optional): "); err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
	}
	save, err := input.confirm(ctx, "Save voice note?")
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return save, err
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordTitle, "title", "t", "", "Title for the note")
	recordCmd.Flags().StringVarP(&recordDescription, "description", "m", "", "Notes for the recording")
	recordCmd.Flags().BoolVarP(&recordYes, "yes", "y", false, "Save without prompting")
	recordCmd.Flags().DurationVar(&recordMax, "max", 0, "Stop automatically after this long (0 = until Enter)")
}
