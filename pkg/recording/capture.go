// Package recording captures voice notes from the microphone.
//
// A Session is an explicit state machine over a Capturer:
//
//	Idle -> Requesting -> Recording -> Stopping -> Pending -> Idle
//
// Pending holds a Draft until it is saved into a core.NoteStore or discarded.
package recording

import (
	"context"
	"os"
)

// Format is an audio container and codec the capturer can produce.
type Format struct {
	Name     string // short name, e.g. "webm"
	MimeType string // e.g. "audio/webm"
	Muxer    string // ffmpeg muxer
	Codec    string // ffmpeg audio encoder
}

// PreferredFormats lists encodings in order of preference.
var PreferredFormats = []Format{
	{Name: "webm", MimeType: "audio/webm", Muxer: "webm", Codec: "libopus"},
	{Name: "ogg", MimeType: "audio/ogg", Muxer: "ogg", Codec: "libopus"},
	{Name: "ogg", MimeType: "audio/ogg", Muxer: "ogg", Codec: "libvorbis"},
	{Name: "mp4", MimeType: "audio/mp4", Muxer: "mp4", Codec: "aac"},
}

// Capturer is the platform microphone and encoder.
type Capturer interface {
	// Supported reports whether audio capture is available at all.
	Supported() bool
	// Formats lists the encodings the platform can produce.
	Formats() []Format
	// Open acquires the microphone and starts encoding in format.
	// It returns ErrPermissionDenied or ErrDeviceNotFound (wrapped) when the
	// device cannot be acquired.
	Open(ctx context.Context, format Format) (Stream, error)
}

// Stream is an acquired, encoding audio input.
type Stream interface {
	// Chunks delivers encoded data. It is closed after Stop once the
	// encoder has flushed, or after Close.
	Chunks() <-chan []byte
	// Stop asks the encoder to finalize.
	Stop() error
	// Close releases the device. It is safe to call more than once.
	Close() error
}

// SelectFormat picks the first preferred format the capturer supports.
// If none of the preferred formats is available the capturer's first
// format is used.
func SelectFormat(available []Format) (Format, bool) {
	for _, want := range PreferredFormats {
		for _, have := range available {
			if have.Muxer == want.Muxer && have.Codec == want.Codec {
				return have, true
			}
		}
	}
	if len(available) > 0 {
		return available[0], true
	}
	return Format{}, false
}

// LocalSession reports whether the process runs in a local (non-SSH) session,
// the terminal equivalent of a secure browsing context.
func LocalSession() bool {
	return os.Getenv("SSH_CONNECTION") == "" && os.Getenv("SSH_TTY") == ""
}
