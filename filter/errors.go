package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

// CompilationError is returned by Compile for expressions that do not
// parse or do not type-check against a movie
type CompilationError struct {
	Expression string
	Reason     string
	// Line and Column locate the problem when the compiler reports it
	Line   int
	Column int
	Err    error
}

func newCompilationError(expression string, err error) *CompilationError {
	ce := &CompilationError{Expression: expression, Reason: err.Error(), Err: err}

	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		ce.Reason = fileErr.Message
		ce.Line = fileErr.Line
		ce.Column = fileErr.Column
	}
	return ce
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// EvaluationError is returned by Match when a compiled filter fails on a
// particular movie
type EvaluationError struct {
	Expression string
	MovieTitle string
	Reason     string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter %q failed on %q: %s", e.Expression, e.MovieTitle, e.Reason)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
