package recording

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FFmpegConfig configures the ffmpeg capture backend.
type FFmpegConfig struct {
	Binary       string // default "ffmpeg"
	InputFormat  string // ffmpeg input device, default per OS
	Device       string // default per OS
	SampleRate   int
	Channels     int
	ChunkSize    int
	StartTimeout time.Duration // how long to wait for the first encoded bytes
	StopTimeout  time.Duration // how long the encoder may take to flush
	Logger       *slog.Logger
}

// FFmpegCapturer records from the default audio input through ffmpeg.
type FFmpegCapturer struct {
	cfg    FFmpegConfig
	logger *slog.Logger

	probeOnce sync.Once
	path      string
	formats   []Format
}

// NewFFmpegCapturer returns a capturer. The ffmpeg binary is probed lazily, once.
func NewFFmpegCapturer(cfg FFmpegConfig) *FFmpegCapturer {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.InputFormat == "" || cfg.Device == "" {
		in, dev := DefaultInput(runtime.GOOS)
		if cfg.InputFormat == "" {
			cfg.InputFormat = in
		}
		if cfg.Device == "" {
			cfg.Device = dev
		}
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 32 * 1024
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = 3 * time.Second
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FFmpegCapturer{cfg: cfg, logger: logger}
}

// DefaultInput returns the ffmpeg input format and device for an OS.
func DefaultInput(goos string) (format, device string) {
	switch goos {
	case "darwin":
		return "avfoundation", ":default"
	case "windows":
		return "dshow", "audio=default"
	default:
		return "pulse", "default"
	}
}

func (c *FFmpegCapturer) probe() {
	c.probeOnce.Do(func() {
		path, err := exec.LookPath(c.cfg.Binary)
		if err != nil {
			c.logger.Debug("ffmpeg not found", "binary", c.cfg.Binary, "error", err)
			return
		}
		muxOut, err := exec.Command(path, "-hide_banner", "-muxers").Output()
		if err != nil {
			c.logger.Debug("ffmpeg muxer probe failed", "error", err)
			return
		}
		encOut, err := exec.Command(path, "-hide_banner", "-encoders").Output()
		if err != nil {
			c.logger.Debug("ffmpeg encoder probe failed", "error", err)
			return
		}
		c.path = path
		c.formats = availableFormats(parseMuxers(muxOut), parseEncoders(encOut))
		c.logger.Debug("ffmpeg probed", "path", path, "formats", len(c.formats))
	})
}

// Supported implements Capturer.
func (c *FFmpegCapturer) Supported() bool {
	c.probe()
	return c.path != "" && len(c.formats) > 0
}

// Formats implements Capturer.
func (c *FFmpegCapturer) Formats() []Format {
	c.probe()
	return append([]Format(nil), c.formats...)
}

// Path is the resolved ffmpeg binary, empty when unavailable.
func (c *FFmpegCapturer) Path() string {
	c.probe()
	return c.path
}

// Args builds the ffmpeg command line for a capture in format.
func (c *FFmpegCapturer) Args(format Format) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", c.cfg.InputFormat, "-i", c.cfg.Device,
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-c:a", format.Codec,
	}
	if format.Muxer == "mp4" {
		args = append(args, "-movflags", "frag_keyframe+empty_moov")
	}
	return append(args, "-f", format.Muxer, "pipe:1")
}

// Open implements Capturer. It returns once ffmpeg produced its first bytes,
// or the start timeout elapsed with the process still running.
func (c *FFmpegCapturer) Open(ctx context.Context, format Format) (Stream, error) {
	if !c.Supported() {
		return nil, errors.New("ffmpeg is not available")
	}

	cmd := exec.Command(c.path, c.Args(format)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	st := &ffmpegStream{
		cmd:     cmd,
		stdin:   stdin,
		raw:     make(chan []byte, 64),
		out:     make(chan []byte),
		done:    make(chan struct{}),
		timeout: c.cfg.StopTimeout,
		logger:  c.logger,
	}
	cmd.Stderr = &st.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	c.logger.Debug("ffmpeg started", "pid", cmd.Process.Pid, "args", cmd.Args)
	go st.read(stdout, c.cfg.ChunkSize)

	var first [][]byte
	select {
	case chunk, ok := <-st.raw:
		if !ok {
			<-st.done
			return nil, classifyFFmpeg(st.stderr.String(), st.waitErr)
		}
		first = append(first, chunk)
	case <-time.After(c.cfg.StartTimeout):
	case <-ctx.Done():
		_ = st.Close()
		return nil, ctx.Err()
	}
	go st.forward(first)
	return st, nil
}

type ffmpegStream struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  lockedBuffer
	raw     chan []byte
	out     chan []byte
	done    chan struct{}
	waitErr error
	timeout time.Duration
	logger  *slog.Logger

	stopOnce  sync.Once
	closeOnce sync.Once
}

func (s *ffmpegStream) read(r io.Reader, size int) {
	defer func() {
		close(s.raw)
		s.waitErr = s.cmd.Wait()
		close(s.done)
	}()
	br := bufio.NewReaderSize(r, size)
	for {
		buf := make([]byte, size)
		n, err := br.Read(buf)
		if n > 0 {
			s.raw <- buf[:n]
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("ffmpeg read", "error", err)
			}
			return
		}
	}
}

func (s *ffmpegStream) forward(first [][]byte) {
	defer close(s.out)
	for _, chunk := range first {
		s.out <- chunk
	}
	for chunk := range s.raw {
		s.out <- chunk
	}
}

func (s *ffmpegStream) Chunks() <-chan []byte { return s.out }

// Stop sends ffmpeg's interactive quit key so it writes the trailer.
func (s *ffmpegStream) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if _, werr := io.WriteString(s.stdin, "q"); werr != nil {
			err = s.cmd.Process.Signal(os.Interrupt)
		}
		_ = s.stdin.Close()
		go func() {
			select {
			case <-s.done:
			case <-time.After(s.timeout):
				s.logger.Warn("ffmpeg did not exit, killing", "pid", s.cmd.Process.Pid)
				_ = s.cmd.Process.Kill()
			}
		}()
	})
	return err
}

// Close kills ffmpeg if it is still running and waits for it to exit.
func (s *ffmpegStream) Close() error {
	s.closeOnce.Do(func() {
		select {
		case <-s.done:
			return
		default:
		}
		_ = s.stdin.Close()
		_ = s.cmd.Process.Kill()
		// Drain so the reader can reach EOF when nobody consumes Chunks.
		go func() {
			for range s.raw {
			}
		}()
		<-s.done
	})
	return nil
}

// lockedBuffer collects stderr written by the exec copier goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// classifyFFmpeg maps ffmpeg's stderr on an early exit to a capture error.
func classifyFFmpeg(stderr string, waitErr error) error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "not authorized"),
		strings.Contains(lower, "operation not permitted"):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
	case strings.Contains(lower, "no such file or directory"),
		strings.Contains(lower, "no such device"),
		strings.Contains(lower, "no such entity"),
		strings.Contains(lower, "could not find audio"),
		strings.Contains(lower, "cannot open audio device"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "input/output error"):
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, msg)
	}
	if msg == "" && waitErr != nil {
		return fmt.Errorf("ffmpeg exited: %w", waitErr)
	}
	if msg == "" {
		return errors.New("ffmpeg exited without producing audio")
	}
	return fmt.Errorf("ffmpeg: %s", msg)
}

// parseMuxers extracts muxer names from `ffmpeg -muxers` output.
func parseMuxers(out []byte) map[string]bool {
	return parseCapabilityTable(out, func(flags string) bool {
		return strings.Contains(flags, "E")
	})
}

// parseEncoders extracts audio encoder names from `ffmpeg -encoders` output.
func parseEncoders(out []byte) map[string]bool {
	return parseCapabilityTable(out, func(flags string) bool {
		return strings.HasPrefix(flags, "A")
	})
}

func parseCapabilityTable(out []byte, keep func(flags string) bool) map[string]bool {
	names := make(map[string]bool)
	inTable := false
	for _, line := range strings.Split(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		if !inTable {
			if trimmed != "" && strings.Trim(trimmed, "-") == "" {
				inTable = true
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 || !keep(fields[0]) {
			continue
		}
		for _, name := range strings.Split(fields[1], ",") {
			names[name] = true
		}
	}
	return names
}

func availableFormats(muxers, encoders map[string]bool) []Format {
	var formats []Format
	for _, f := range PreferredFormats {
		if muxers[f.Muxer] && encoders[f.Codec] {
			formats = append(formats, f)
		}
	}
	return formats
}
