package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec converts a snapshot document to and from bytes.
type Codec interface {
	Encode(doc document) ([]byte, error)
	Decode(data []byte, doc *document) error
}

// JSONCodec writes indented JSON, matching the other files under ~/.config.
type JSONCodec struct{}

func (JSONCodec) Encode(doc document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (JSONCodec) Decode(data []byte, doc *document) error {
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return nil
}

// YAMLCodec writes the same document as YAML.
type YAMLCodec struct{}

func (YAMLCodec) Encode(doc document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func (YAMLCodec) Decode(data []byte, doc *document) error {
	if err := yaml.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return nil
}
