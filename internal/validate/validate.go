// Package validate applies a declarative multi-stage check sequence to
// inbound JSON payloads. Stages run in a fixed order (presence, type,
// trim, size) and the first violated stage stops the pipeline with a
// single field error, so a malformed request always receives exactly
// one deterministic message.
package validate

import (
	"fmt"
	"strings"
)

// FieldSpec declares the checks applied to one payload field.
type FieldSpec struct {
	// Required fields must be present as keys in the payload.
	Required bool
	// Trimmed fields must equal their whitespace-trimmed form; leading or
	// trailing whitespace is rejected, not stripped.
	Trimmed bool
	// MinLength/MaxLength bound the trimmed length; zero means unset.
	MinLength int
	MaxLength int
}

// FieldError reports the single violation found by the pipeline.
type FieldError struct {
	Field   string
	Message string
}

// Spec is an ordered field specification. Order decides which field is
// reported when several violate the same stage.
type Spec struct {
	Order  []string
	Fields map[string]FieldSpec
}

// Apply runs the pipeline over payload. It returns nil when every stage
// passes. All declared fields are string-typed.
func Apply(payload map[string]any, spec Spec) *FieldError {
	// presence
	for _, field := range spec.Order {
		if !spec.Fields[field].Required {
			continue
		}
		if _, ok := payload[field]; !ok {
			return &FieldError{Field: field, Message: "Missing field"}
		}
	}

	// type
	for _, field := range spec.Order {
		raw, ok := payload[field]
		if !ok {
			continue
		}
		if _, ok := raw.(string); !ok {
			return &FieldError{Field: field, Message: "Incorrect field type: expected string"}
		}
	}

	// trim
	for _, field := range spec.Order {
		if !spec.Fields[field].Trimmed {
			continue
		}
		value, ok := payload[field].(string)
		if !ok {
			continue
		}
		if strings.TrimSpace(value) != value {
			return &FieldError{Field: field, Message: "Cannot start or end with whitespace"}
		}
	}

	// size: a too-small field wins over a too-large one
	for _, field := range spec.Order {
		fs := spec.Fields[field]
		if fs.MinLength == 0 {
			continue
		}
		value, ok := payload[field].(string)
		if !ok {
			continue
		}
		if len(strings.TrimSpace(value)) < fs.MinLength {
			return &FieldError{
				Field:   field,
				Message: fmt.Sprintf("Must be at least %d characters long", fs.MinLength),
			}
		}
	}
	for _, field := range spec.Order {
		fs := spec.Fields[field]
		if fs.MaxLength == 0 {
			continue
		}
		value, ok := payload[field].(string)
		if !ok {
			continue
		}
		if len(strings.TrimSpace(value)) > fs.MaxLength {
			return &FieldError{
				Field:   field,
				Message: fmt.Sprintf("Must be at most %d characters long", fs.MaxLength),
			}
		}
	}

	return nil
}
