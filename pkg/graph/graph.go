package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Payload Serialization API
// =============================================================================

// MarshalPayload serializes a payload to pretty-printed JSON bytes.
func MarshalPayload(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := writePayloadTo(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalPayload deserializes JSON bytes into a Payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	return readPayloadFrom(bytes.NewReader(data))
}

// WritePayload writes a payload as JSON to an io.Writer.
func WritePayload(p Payload, w io.Writer) error {
	return writePayloadTo(p, w)
}

// ReadPayload decodes a JSON payload from an io.Reader.
func ReadPayload(r io.Reader) (Payload, error) {
	return readPayloadFrom(r)
}

// ReadPayloadFile reads a JSON file and returns the decoded payload.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readPayloadFrom(f)
}

// WritePayloadFile writes a payload to a JSON file.
// The file is created with 0644 permissions.
func WritePayloadFile(p Payload, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writePayloadTo(p, f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writePayloadTo(p Payload, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readPayloadFrom(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}
