package recording

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Player plays decoded voice notes through ffplay.
type Player struct {
	Binary string // default "ffplay"
}

// Available reports whether the player binary is on PATH.
func (p Player) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

// Play blocks until playback ends or ctx is cancelled.
func (p Player) Play(ctx context.Context, audioData string) error {
	_, data, err := DecodeDataURL(audioData)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, p.binary(), "-nodisp", "-autoexit", "-loglevel", "error", "-i", "pipe:0")
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffplay: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

func (p Player) binary() string {
	if p.Binary == "" {
		return "ffplay"
	}
	return p.Binary
}
