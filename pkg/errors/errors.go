// Package errors provides the error taxonomy shared by the whole module.
// Every constructor attaches a stack trace via cockroachdb/errors, and the
// structured types implement zerolog object marshaling so failures can be
// logged with their fields intact.
package errors

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	warningMutex   sync.Mutex
	warningHandler func(w error)
)

// SetWarningHandler installs the handler invoked by Warn. Passing nil
// silences warnings.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn raises a non-fatal warning, such as a stratum too small to split at
// the requested proportion, through the installed handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if warningHandler != nil {
		warningHandler(w)
	}
}

// NotFittedError is returned when Predict, Transform or Bake is called on an
// estimator, recipe or workflow that has not been fitted.
type NotFittedError struct {
	Name   string
	Method string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("amesfit: %s: not fitted yet. Call Fit() or Prep() before %s()", e.Name, e.Method)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("name", e.Name).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(name, method string) error {
	return errors.WithStack(&NotFittedError{Name: name, Method: method})
}

// DimensionError reports a shape mismatch between two inputs, such as a
// design matrix and a response vector with different row counts.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("amesfit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError is returned when an argument value is invalid for the
// operation, such as a log transform applied to a non-positive value or a
// split proportion outside (0, 1).
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("amesfit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ColumnError is returned when a named column is missing from a table or has
// the wrong type for the requested operation.
type ColumnError struct {
	Op     string
	Column string
	Reason string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("amesfit: %s: column %q: %s", e.Op, e.Column, e.Reason)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *ColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "ColumnError")
}

// NewColumnError creates a ColumnError with a stack trace.
func NewColumnError(op, column, reason string) error {
	return errors.WithStack(&ColumnError{Op: op, Column: column, Reason: reason})
}

// FormulaError reports a malformed model formula along with the byte offset
// of the offending token.
type FormulaError struct {
	Formula string
	Pos     int
	Message string
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("amesfit: formula %q: %s (at offset %d)", e.Formula, e.Message, e.Pos)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *FormulaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("formula", e.Formula).
		Int("pos", e.Pos).
		Str("message", e.Message).
		Str("type", "FormulaError")
}

// NewFormulaError creates a FormulaError with a stack trace.
func NewFormulaError(formula string, pos int, message string) error {
	return errors.WithStack(&FormulaError{Formula: formula, Pos: pos, Message: message})
}

// UnknownLevelError is returned when a categorical column contains a level
// at bake or predict time that was never seen during fitting.
type UnknownLevelError struct {
	Column string
	Level  string
	Known  []string
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("amesfit: column %q: unknown level %q (levels seen during fitting: %v)", e.Column, e.Level, e.Known)
}

// MarshalZerologObject adds the structured fields to a zerolog event.
func (e *UnknownLevelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("level", e.Level).
		Strs("known_levels", e.Known).
		Str("type", "UnknownLevelError")
}

// NewUnknownLevelError creates an UnknownLevelError with a stack trace.
func NewUnknownLevelError(column, level string, known []string) error {
	return errors.WithStack(&UnknownLevelError{Column: column, Level: level, Known: known})
}

// ModelError is a general fitting failure, wrapping a cause such as a
// singular normal-equations matrix.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("amesfit: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("amesfit: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is the cause used when an operation receives a table or
	// matrix with no rows or no columns.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is the cause used when a design matrix is singular.
	ErrSingularMatrix = New("singular matrix")
)
