package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brianporeilly/repogen/compiler/load"
)

// Sentinel errors for common failure cases.
var (
	// ErrStructural indicates a declaration that is not a struct with named fields.
	ErrStructural = errors.New("repogen: invalid declaration")
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("repogen: invalid schema")
	// ErrInvalidConfig indicates a configuration error.
	ErrInvalidConfig = errors.New("repogen: invalid configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("repogen: code generation failed")
)

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind uint8

// Diagnostic kinds.
const (
	KindSchema DiagnosticKind = iota
	KindStructural
	KindConfig
)

// String implements fmt.Stringer.
func (k DiagnosticKind) String() string {
	switch k {
	case KindStructural:
		return "declaration"
	case KindConfig:
		return "config"
	default:
		return "schema"
	}
}

// Diagnostic is a single generation-time failure. Every diagnostic carries a
// corrected example of the offending declaration.
type Diagnostic struct {
	Kind    DiagnosticKind
	Type    string // Record name
	Field   string // Field name (if applicable)
	Message string
	Example string
	Pos     load.Position
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Kind.String())
	b.WriteString(" error")
	if d.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(d.Type)
	}
	if d.Field != "" {
		b.WriteString(" field ")
		b.WriteString(d.Field)
	}
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	if d.Example != "" {
		b.WriteString("\n\texample:")
		for _, line := range strings.Split(strings.TrimRight(d.Example, "\n"), "\n") {
			b.WriteString("\n\t\t")
			b.WriteString(line)
		}
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error of the kind.
func (d *Diagnostic) Is(target error) bool {
	switch d.Kind {
	case KindStructural:
		return target == ErrStructural
	case KindConfig:
		return target == ErrInvalidConfig
	default:
		return target == ErrInvalidSchema
	}
}

// NewStructuralError creates a diagnostic for a declaration of the wrong shape.
func NewStructuralError(typeName, message, example string, pos load.Position) *Diagnostic {
	return &Diagnostic{Kind: KindStructural, Type: typeName, Message: message, Example: example, Pos: pos}
}

// NewSchemaError creates a diagnostic for an invalid record or field.
func NewSchemaError(typeName, fieldName, message, example string, pos load.Position) *Diagnostic {
	return &Diagnostic{Kind: KindSchema, Type: typeName, Field: fieldName, Message: message, Example: example, Pos: pos}
}

// NewAnnotationError creates a diagnostic for an invalid annotation.
func NewAnnotationError(typeName, fieldName, message, example string, pos load.Position) *Diagnostic {
	return &Diagnostic{Kind: KindConfig, Type: typeName, Field: fieldName, Message: message, Example: example, Pos: pos}
}

// DiagnosticSet is an ordered list of diagnostics reported together.
type DiagnosticSet []*Diagnostic

// Error implements the error interface.
func (s DiagnosticSet) Error() string {
	switch len(s) {
	case 0:
		return "repogen: no diagnostics"
	case 1:
		return "repogen: " + s[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "repogen: %d errors:", len(s))
	for _, d := range s {
		b.WriteString("\n")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Unwrap returns the diagnostics for errors.Is and errors.As.
func (s DiagnosticSet) Unwrap() []error {
	errs := make([]error, len(s))
	for i, d := range s {
		errs[i] = d
	}
	return errs
}

// Err returns the set as an error, or nil if it is empty.
func (s DiagnosticSet) Err() error {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Diagnostics extracts the diagnostics carried by err.
func Diagnostics(err error) DiagnosticSet {
	var set DiagnosticSet
	if errors.As(err, &set) {
		return set
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return DiagnosticSet{d}
	}
	return nil
}

// IsStructuralError reports whether err contains a structural diagnostic.
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrStructural)
}

// IsSchemaError reports whether err contains a schema diagnostic.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrInvalidSchema)
}

// ConfigError represents an invalid generator option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("repogen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("repogen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError reports whether err is an option error or an annotation diagnostic.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// GenerationError represents a failure while rendering or writing generated code.
type GenerationError struct {
	Phase   string // e.g. "render", "format", "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("repogen: generation error")
	if e.Phase != "" {
		b.WriteString(" in ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" for ")
		b.WriteString(e.File)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsGenerationError reports whether err is a GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}
