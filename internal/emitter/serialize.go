package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shanehandley/servo/internal/ir"
)

// EncodeJSON serializes a contract set as indented JSON, the default
// interchange form handed to code generators.
func EncodeJSON(set *ir.ContractSet) ([]byte, error) {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling contract set: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeYAML serializes a contract set as YAML for human review.
func EncodeYAML(set *ir.ContractSet) ([]byte, error) {
	// Round-trip through JSON so the YAML field names match the
	// snake_case JSON tags instead of Go field names.
	raw, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshaling contract set: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding contract set: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("encoding contract set as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeCanonical serializes a contract set in RFC 8785 canonical
// form. Byte-for-byte stable across runs and hosts given the same
// input and run ID; golden tests compare against this form.
func EncodeCanonical(set *ir.ContractSet) ([]byte, error) {
	raw, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("marshaling contract set: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding contract set: %w", err)
	}
	sanitizeNumbers(generic)
	return ir.MarshalCanonical(generic)
}

// sanitizeNumbers rewrites the float64 values encoding/json produces
// for integer JSON numbers back to int64, which canonical marshaling
// requires.
func sanitizeNumbers(v any) {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			if f, ok := elem.(float64); ok {
				val[k] = int64(f)
				continue
			}
			sanitizeNumbers(elem)
		}
	case []any:
		for i, elem := range val {
			if f, ok := elem.(float64); ok {
				val[i] = int64(f)
				continue
			}
			sanitizeNumbers(elem)
		}
	}
}
