package apperr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies application failures
type Kind int

const (
	// Unknown is any error not created by this package
	Unknown Kind = iota
	// Usage - wrong command line arguments
	Usage
	// Format - input files can not be aligned
	Format
	// Initialization - model can not be initialized from the corpus
	Initialization
	// NumericDegeneracy - zero normalizer during estimation
	NumericDegeneracy
	// IO - file read or write failure
	IO
)

var (
	kindCode = map[Kind]string{Unknown: "SERVICE_ERROR", Usage: "USAGE_ERROR", Format: "FORMAT_ERROR",
		Initialization: "INITIALIZATION_ERROR", NumericDegeneracy: "NUMERIC_DEGENERACY", IO: "IO_ERROR"}
	kindExit = map[Kind]int{Unknown: 1, Usage: 2, Format: 3, Initialization: 4, NumericDegeneracy: 5, IO: 6}
)

// Code returns error code string of the kind
func (k Kind) Code() string {
	return kindCode[k]
}

// ExitCode returns process exit code for the kind
func (k Kind) ExitCode() int {
	return kindExit[k]
}

func (k Kind) String() string {
	return k.Code()
}

// Error is a classified application error
type Error struct {
	Kind Kind
	Msg  string
	// Tokens lists offending tokens if any
	Tokens []string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Msg)
	if len(e.Tokens) > 0 {
		sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(e.Tokens, ", ")))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates error of the kind
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates error of the kind with formatted message
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithTokens creates error of the kind listing the tokens
func WithTokens(kind Kind, msg string, tokens []string) error {
	return &Error{Kind: kind, Msg: msg, Tokens: tokens}
}

// Wrap annotates err with a kind and message. Returns nil for nil err
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WrapIO annotates IO error with the file path
func WrapIO(err error, op, path string) error {
	return Wrap(err, IO, fmt.Sprintf("can't %s %s", op, path))
}

// KindOf finds the first classified error in the chain
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

// Is reports whether the chain contains an error of the kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps err to process exit code, 0 for nil
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}

// TokensOf returns offending tokens of the first classified error in the chain
func TokensOf(err error) []string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Tokens
	}
	return nil
}
