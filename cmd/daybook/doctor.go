package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook/pkg/git"
	"github.com/aretw0/daybook/pkg/recording"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check microphone capture, playback and storage prerequisites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		check := func(ok bool, label, detail string) {
			mark := "ok"
			if !ok {
				mark = "!!"
				failed++
			}
			fmt.Fprintf(out, "[%s] %-14s %s\n", mark, label, detail)
		}

		capturer := newCapturer()
		if capturer.Supported() {
			format, _ := recording.SelectFormat(capturer.Formats())
			names := make([]string, 0, len(capturer.Formats()))
			for _, f := range capturer.Formats() {
				names = append(names, f.Name+"/"+f.Codec)
			}
			check(true, "ffmpeg", fmt.Sprintf("%s (records %s, available: %s)", capturer.Path(), format.MimeType, strings.Join(names, ", ")))
		} else {
			check(false, "ffmpeg", recording.ReasonMessage(recording.ReasonUnsupported))
		}

		player := recording.Player{Binary: cfg.Playback.FFplay}
		check(player.Available(), "ffplay", optionalDetail(player.Available(), "playback available", "not found; 'notes play' is disabled"))

		check(recording.LocalSession(), "session", optionalDetail(recording.LocalSession(), "local terminal", recording.ReasonMessage(recording.ReasonInsecureContext)))

		check(git.IsInstalled(), "git", optionalDetail(git.IsInstalled(), gitPath(), "not installed; versioning is unavailable"))

		dir := resolveDataDir()
		check(writable(dir), "data dir", dir)

		if cfg.Path != "" {
			fmt.Fprintf(out, "     %-14s %s\n", "config", cfg.Path)
		}

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func optionalDetail(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}

func gitPath() string {
	p, _ := exec.LookPath("git")
	return p
}

// writable reports whether dir exists (or can be created) and accepts files.
func writable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".daybook-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_, _ = io.WriteString(f, "ok")
	_ = f.Close()
	return os.Remove(name) == nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
