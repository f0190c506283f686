// Package domainerr defines the pipeline's error taxonomy.
//
// Every error the pipeline produces that a caller might branch on is a
// *DomainError carrying one of the Type values below, matching the
// taxonomy in the governing design document: input-shape errors abort
// the document run, per-model errors are classified for retry/fallback
// decisions, and section-level failures are recovered locally.
package domainerr

import (
	"errors"
	"fmt"
)

// Type classifies a DomainError for branching (errors.As + switch on Type).
type Type string

const (
	InvalidLayoutInput Type = "invalid_layout_input"
	InvalidPDF         Type = "invalid_pdf"
	InvalidRange       Type = "invalid_range"
	SchemaViolation    Type = "schema_violation"
	ModelTransient     Type = "model_transient"
	ModelFatal         Type = "model_fatal"
	SectionFailed      Type = "section_failed"
	Cancelled          Type = "cancelled"
	Validation         Type = "validation"
	Config             Type = "config"
	IO                 Type = "io"
)

// DomainError is a typed, wrapped error carrying the taxonomy Type.
type DomainError struct {
	Type    Type
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, domainerr.New(SomeType, "", nil)) to match on Type alone.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return de.Type == e.Type
	}
	return false
}

// New constructs a DomainError of the given type.
func New(t Type, message string, err error) *DomainError {
	return &DomainError{Type: t, Message: message, Err: err}
}

func NewInvalidLayoutInput(message string, err error) *DomainError {
	return New(InvalidLayoutInput, message, err)
}

func NewInvalidPDF(message string, err error) *DomainError {
	return New(InvalidPDF, message, err)
}

func NewInvalidRange(message string, err error) *DomainError {
	return New(InvalidRange, message, err)
}

func NewSchemaViolation(message string, err error) *DomainError {
	return New(SchemaViolation, message, err)
}

func NewModelTransient(message string, err error) *DomainError {
	return New(ModelTransient, message, err)
}

func NewModelFatal(message string, err error) *DomainError {
	return New(ModelFatal, message, err)
}

func NewSectionFailed(message string, err error) *DomainError {
	return New(SectionFailed, message, err)
}

func NewCancelled(message string, err error) *DomainError {
	return New(Cancelled, message, err)
}

func NewValidation(message string, err error) *DomainError {
	return New(Validation, message, err)
}

func NewConfig(message string, err error) *DomainError {
	return New(Config, message, err)
}

func NewIO(message string, err error) *DomainError {
	return New(IO, message, err)
}

// IsType reports whether err (or something it wraps) is a *DomainError of type t.
func IsType(err error, t Type) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == t
	}
	return false
}
