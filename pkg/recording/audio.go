package recording

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// EncodeDataURL embeds audio bytes as a base64 data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL extracts the mime type and bytes from a base64 data URL.
func DecodeDataURL(s string) (string, []byte, error) {
	mimeType, payload, err := splitDataURL(s)
	if err != nil {
		return "", nil, err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return mimeType, data, nil
}

// DataURLSize returns the mime type and decoded byte count of a base64 data
// URL without decoding the payload.
func DataURLSize(s string) (string, int, error) {
	mimeType, payload, err := splitDataURL(s)
	if err != nil {
		return "", 0, err
	}
	if len(payload)%4 != 0 {
		return "", 0, errors.New("decode audio payload: truncated base64")
	}
	n := base64.StdEncoding.DecodedLen(len(payload))
	if strings.HasSuffix(payload, "==") {
		n -= 2
	} else if strings.HasSuffix(payload, "=") {
		n--
	}
	return mimeType, n, nil
}

func splitDataURL(s string) (string, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", "", errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", errors.New("malformed data URL")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", "", fmt.Errorf("unsupported data URL encoding %q", meta)
	}
	// Codec parameters, e.g. audio/webm;codecs=opus
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return mimeType, payload, nil
}

// Extension returns a file extension for an audio mime type.
func Extension(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	case "audio/mp4":
		return ".m4a"
	default:
		return ".audio"
	}
}
