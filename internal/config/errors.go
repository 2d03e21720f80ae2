package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ErrMalformedDocument indicates the input could not be parsed as a YAML
// mapping at all. Field-level problems are reported as FieldError instead.
var ErrMalformedDocument = errors.New("configuration document is not well-formed")

// FieldKind classifies a field-level violation.
type FieldKind string

const (
	KindMissingRequiredField FieldKind = "missing_required_field"
	KindInvalidType          FieldKind = "invalid_type"
	KindInvalidEnumValue     FieldKind = "invalid_enum_value"
	KindInvalidURL           FieldKind = "invalid_url"
	KindInvalidValue         FieldKind = "invalid_value"
)

// FieldError describes a single violation at a dotted document path.
// Error messages never embed document values except the offending member of
// an enum set, so sensitive fields cannot leak through them.
type FieldError struct {
	Path     string
	Kind     FieldKind
	Expected string
	Got      string
	Allowed  []string
	Reason   string
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case KindMissingRequiredField:
		return fmt.Sprintf("%s: required field is missing", e.Path)
	case KindInvalidType:
		return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got)
	case KindInvalidEnumValue:
		return fmt.Sprintf("%s: %q is not one of [%s]", e.Path, e.Got, strings.Join(e.Allowed, ", "))
	case KindInvalidURL:
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
}

func missingField(path string) *FieldError {
	return &FieldError{Path: path, Kind: KindMissingRequiredField}
}

func invalidType(path, expected, got string) *FieldError {
	return &FieldError{Path: path, Kind: KindInvalidType, Expected: expected, Got: got}
}

func invalidEnum(path, got string, allowed []string) *FieldError {
	return &FieldError{Path: path, Kind: KindInvalidEnumValue, Got: got, Allowed: allowed}
}

func invalidURL(path, reason string) *FieldError {
	return &FieldError{Path: path, Kind: KindInvalidURL, Reason: reason}
}

func invalidValue(path, reason string) *FieldError {
	return &FieldError{Path: path, Kind: KindInvalidValue, Reason: reason}
}

// ValidationError aggregates every field-level violation found in one
// resolution pass. The underlying multierr chain is reachable through Unwrap,
// so errors.As can locate individual FieldError values.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	violations := e.Violations()
	var b strings.Builder
	fmt.Fprintf(&b, "configuration has %d problem(s):", len(violations))
	for _, v := range violations {
		b.WriteString("\n  - ")
		b.WriteString(v.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.err }

// Violations returns the individual field errors in resolution order.
func (e *ValidationError) Violations() []*FieldError {
	var out []*FieldError
	for _, err := range multierr.Errors(e.err) {
		var fe *FieldError
		if errors.As(err, &fe) {
			out = append(out, fe)
		}
	}
	return out
}

// Warning flags a non-fatal finding, currently only unknown keys. Unknown
// keys are tolerated so that configuration files written for newer versions
// still load.
type Warning struct {
	Path string
}

func (w Warning) String() string {
	return fmt.Sprintf("unknown configuration key %q", w.Path)
}
