package recording

import (
	"errors"
	"fmt"
)

// Errors returned by Capturer implementations. The session maps them to a Reason.
var (
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrDeviceNotFound   = errors.New("no audio input device")
	ErrNoDraft          = errors.New("no pending recording")
)

// Reason classifies a capture failure.
type Reason string

const (
	ReasonUnsupported      Reason = "unsupported"
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonInsecureContext  Reason = "insecure_context"
	ReasonDeviceNotFound   Reason = "device_not_found"
	ReasonEmptyCapture     Reason = "empty_capture"
	ReasonUnknown          Reason = "unknown"
)

// CaptureError is returned when a recording could not be started or produced no audio.
type CaptureError struct {
	Reason Reason
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("capture failed (%s)", e.Reason)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Message is the user-facing explanation for the failure.
func (e *CaptureError) Message() string {
	return ReasonMessage(e.Reason)
}

// ReasonMessage returns the user-facing message for a failure reason.
func ReasonMessage(r Reason) string {
	switch r {
	case ReasonUnsupported:
		return "Voice recording is not supported on this system. Install ffmpeg and try again."
	case ReasonInsecureContext:
		return "Microphone access requires a local session. Run daybook from a local terminal rather than over SSH and allow microphone access."
	case ReasonPermissionDenied:
		return "Microphone access was blocked. Please allow microphone access in your system settings and try again."
	case ReasonDeviceNotFound:
		return "No microphone was found. Connect a microphone and try again."
	case ReasonEmptyCapture:
		return "Recording failed. Please try capturing your voice note again."
	default:
		return "Unable to access the microphone."
	}
}

// classify maps an acquisition error to a Reason.
func classify(err error, secure bool) Reason {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		if !secure {
			return ReasonInsecureContext
		}
		return ReasonPermissionDenied
	case errors.Is(err, ErrDeviceNotFound):
		return ReasonDeviceNotFound
	default:
		return ReasonUnknown
	}
}
