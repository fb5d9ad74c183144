// =============================================================================
// H2K to HPXML Translator - Shared Types
// =============================================================================
//
// This package contains the error taxonomy shared by every stage of the
// translation pipeline. Keeping the errors here avoids import cycles between:
//   - validation (schema violations)
//   - h2k        (missing fields, invalid codes)
//   - codes      (invalid codes, unmapped vocabulary)
//   - hpxml      (unmapped vocabulary, invalid values)
//   - translator (unsupported formats)
//
// All of these errors are fatal. Callers wrap them with fmt.Errorf("...: %w")
// and match them with errors.As.
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// SCHEMA VALIDATION
// =============================================================================

// Violation is a single schema rule broken by the input document.
type Violation struct {
	// Path is the element path of the offending node, relative to the root.
	Path string

	// Message describes the rule that was broken.
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// SchemaValidationError reports a malformed or non-conforming input document.
// It is raised before any extraction takes place.
type SchemaValidationError struct {
	// File is the path of the document that failed validation.
	File string

	// Violations lists every rule broken, in document order.
	Violations []Violation
}

func (e *SchemaValidationError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("schema validation failed for %s", e.File)
	}
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("schema validation failed for %s: %s", e.File, strings.Join(lines, "; "))
}

// =============================================================================
// EXTRACTION ERRORS
// =============================================================================

// MissingFieldError reports a field the extractor relies on that is absent
// from an otherwise schema-valid document.
type MissingFieldError struct {
	// Path is the element path, with "@attr" appended for attributes.
	Path string

	// Element identifies the enclosing component, e.g. `wall 3 "Main floor"`.
	// Empty for house-level fields.
	Element string
}

func (e *MissingFieldError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("missing field %s", e.Path)
	}
	return fmt.Sprintf("missing field %s (in %s)", e.Path, e.Element)
}

// InvalidCodeError reports a coded field whose value is outside its known
// enumeration.
type InvalidCodeError struct {
	// Field names where the code came from.
	Field string

	// Code is the offending value as it appeared in the document.
	Code string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code %q for %s", e.Code, e.Field)
}

// InvalidValueError reports a value that is present but unusable: a
// malformed number, a negative insulation remainder, a zero conductance sum.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Field, e.Reason)
}

// =============================================================================
// MAPPING ERRORS
// =============================================================================

// UnmappedVocabularyError reports a source term with no entry in a
// vocabulary table. The mapper never passes unmapped terms through.
type UnmappedVocabularyError struct {
	// Table is the name of the vocabulary table consulted.
	Table string

	// Term is the source-side term that was not found.
	Term string
}

func (e *UnmappedVocabularyError) Error() string {
	return fmt.Sprintf("no %s mapping for %q", e.Table, e.Term)
}

// =============================================================================
// DRIVER ERRORS
// =============================================================================

// UnsupportedFormatError reports an output path whose extension has no
// translation strategy. It is raised before anything is read or written.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("output %s has no extension; cannot select an output format", e.Path)
	}
	return fmt.Sprintf("unknown output extension %q for %s", e.Extension, e.Path)
}

// UnsupportedVersionError reports an input document written by a schema
// revision the extractor does not understand.
type UnsupportedVersionError struct {
	Major, Minor         int
	WantMajor, WantMinor int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported H2K version %d.%d (expected %d.x, tested against %d.%d)",
		e.Major, e.Minor, e.WantMajor, e.WantMajor, e.WantMinor)
}
