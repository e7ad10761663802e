package batch

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

func ParseBatchYAML(r io.Reader) (Batch, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseBatchJSON(bytes.NewReader(jsonBytes))
}

func ParseBatchJSON(r io.Reader) (Batch, error) {
	var defs []any
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	b := make(Batch, len(defs))
	for i, def := range defs {
		entry, err := DecodeEntry(def)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		b[i] = entry
	}
	return b, nil
}
