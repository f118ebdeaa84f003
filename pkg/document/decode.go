package document

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Decode unmarshals a UTF-8 JSON document. Structural decode failures
// are reported as Issues so callers see the same error shape for decode
// and validation problems.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, decodeIssue(err)
	}
	return &doc, nil
}

// DecodeYAML accepts a YAML-authored document and normalizes it through
// the JSON wire model. YAML is an authoring convenience; the wire format
// stays JSON.
func DecodeYAML(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, Issues{{Code: CodeParseError, Message: fmt.Sprintf("invalid yaml: %v", err)}}
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, Issues{{Code: CodeParseError, Message: fmt.Sprintf("yaml does not map to the wire model: %v", err)}}
	}
	return Decode(normalized)
}

// Parse decodes and validates in one step. On failure the returned error
// is always an Issues value.
func Parse(data []byte) (*Document, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if iss := Validate(doc); len(iss) > 0 {
		return nil, iss
	}
	return doc, nil
}

func decodeIssue(err error) Issues {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return Issues{{Code: fieldErr.Code, Message: fieldErr.Message}}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Issues{{
			Path:    typeErr.Field,
			Code:    CodeTypeMismatch,
			Message: fmt.Sprintf("cannot decode %s into %s", typeErr.Value, typeErr.Type),
		}}
	}
	return Issues{{Code: CodeParseError, Message: err.Error()}}
}
