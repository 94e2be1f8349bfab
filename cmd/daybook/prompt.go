package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// lineReader reads stdin on one goroutine so a pending read never blocks
// the recording loop.
type lineReader struct {
	lines chan string
	out   io.Writer
}

func newLineReader(in io.Reader, out io.Writer) *lineReader {
	lr := &lineReader{lines: make(chan string), out: out}
	go func() {
		defer close(lr.lines)
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if line != "" || err == nil {
				lr.lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				return
			}
		}
	}()
	return lr
}

// ask prints label and waits for one line. EOF yields io.EOF.
func (lr *lineReader) ask(ctx context.Context, label string) (string, error) {
	if label != "" {
		fmt.Fprint(lr.out, label)
	}
	select {
	case line, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// waitForStop blocks until a line is entered or ctx is done. When stdin is
// closed and the wait is bounded, EOF does not end the wait: ctx's deadline
// decides.
func (lr *lineReader) waitForStop(ctx context.Context, bounded bool) {
	_, err := lr.ask(ctx, "")
	if errors.Is(err, io.EOF) && bounded {
		<-ctx.Done()
	}
}

// confirm asks a yes/no question, defaulting to yes.
func (lr *lineReader) confirm(ctx context.Context, label string) (bool, error) {
	answer, err := lr.ask(ctx, label+" [Y/n] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
