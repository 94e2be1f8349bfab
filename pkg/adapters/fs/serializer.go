package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Serializer defines how a collection blob is encoded on disk.
type Serializer interface {
	// Ext is the file extension, including the dot.
	Ext() string
	// Marshal encodes v.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultSerializers returns the standard set of serializers keyed by format.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		FormatJSON: JSONSerializer{},
		FormatYAML: YAMLSerializer{},
	}
}

// SerializerFor returns the serializer for a format name. Empty means JSON.
func SerializerFor(format string) (Serializer, error) {
	if format == "" {
		format = FormatJSON
	}
	if format == "yml" {
		format = FormatYAML
	}
	s, ok := DefaultSerializers()[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want %s)", format, formatNames())
	}
	return s, nil
}

func formatNames() string {
	names := make([]string, 0, 2)
	for name := range DefaultSerializers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}

// --- JSON Serializer ---

// JSONSerializer writes indented JSON.
type JSONSerializer struct{}

func (JSONSerializer) Ext() string { return ".json" }

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONSerializer) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Serializer ---

// YAMLSerializer writes YAML documents.
type YAMLSerializer struct{}

func (YAMLSerializer) Ext() string { return ".yaml" }

func (YAMLSerializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLSerializer) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
