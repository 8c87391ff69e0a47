package errors

import (
	"errors"
	"fmt"
)

// Kind sentinels. Callers branch with errors.Is against these.
var (
	KindInput            = errors.New("invalid input")
	KindNotFound         = errors.New("not found")
	KindCorrupt          = errors.New("corrupt record")
	KindProvider         = errors.New("provider failure")
	KindValidation       = errors.New("validation failure")
	KindGenerationFailed = errors.New("generation failed")
	KindConfig           = errors.New("configuration error")
	KindUnknownStyle     = errors.New("unknown style")
	KindRender           = errors.New("render failure")
)

// Error is the domain error: a kind, the identifier it refers to (job id,
// profile name, template name), and a human-readable detail.
type Error struct {
	Kind   error
	Ref    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Ref != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Ref)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, ref, detail string) *Error {
	return &Error{Kind: kind, Ref: ref, Detail: detail}
}

// Wrap attaches a kind and identifier to an underlying error.
func Wrap(kind error, ref string, err error) *Error {
	return &Error{Kind: kind, Ref: ref, Err: err}
}

var (
	Input            = func(ref, detail string) *Error { return New(KindInput, ref, detail) }
	NotFound         = func(ref, detail string) *Error { return New(KindNotFound, ref, detail) }
	Corrupt          = func(ref, detail string) *Error { return New(KindCorrupt, ref, detail) }
	Provider         = func(ref string, err error) *Error { return Wrap(KindProvider, ref, err) }
	Validation       = func(ref, detail string) *Error { return New(KindValidation, ref, detail) }
	GenerationFailed = func(ref, detail string) *Error { return New(KindGenerationFailed, ref, detail) }
	Config           = func(ref, detail string) *Error { return New(KindConfig, ref, detail) }
	UnknownStyle     = func(ref, detail string) *Error { return New(KindUnknownStyle, ref, detail) }
	Render           = func(ref string, err error) *Error { return Wrap(KindRender, ref, err) }
)

// Is reports whether err carries the given kind.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
