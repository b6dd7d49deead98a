package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownModel        = errors.New("unknown model")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrEmptyContent        = errors.New("response carried no content")
	ErrFamilyChange        = errors.New("provider family cannot change within a session")
	ErrSystemPromptChange  = errors.New("system prompt is part of history and cannot change within a session")
)

type ConfigErrorKind int

const (
	ConfigNoTokenSet ConfigErrorKind = iota + 1
	ConfigValidation
	ConfigMulti
)

func (k ConfigErrorKind) String() string {
	switch k {
	case ConfigNoTokenSet:
		return "no token set"
	case ConfigValidation:
		return "validation"
	case ConfigMulti:
		return "multiple errors"
	default:
		return fmt.Sprintf("config error kind(%d)", int(k))
	}
}

// ConfigBuildError reports why a ModelConfig could not be built. Multi errors
// carry every problem in the order it was detected.
type ConfigBuildError struct {
	Kind   ConfigErrorKind
	Reason string
	Errors []*ConfigBuildError
	cause  error
}

func NoTokenSet(cause error) *ConfigBuildError {
	return &ConfigBuildError{Kind: ConfigNoTokenSet, Reason: cause.Error(), cause: cause}
}

func Validation(format string, args ...any) *ConfigBuildError {
	return &ConfigBuildError{Kind: ConfigValidation, Reason: fmt.Sprintf(format, args...)}
}

func MultiConfigError(errs []*ConfigBuildError) *ConfigBuildError {
	return &ConfigBuildError{Kind: ConfigMulti, Errors: errs}
}

func (e *ConfigBuildError) Error() string {
	if e.Kind != ConfigMulti {
		return fmt.Sprintf("build config: %s: %s", e.Kind, e.Reason)
	}
	parts := make([]string, len(e.Errors))
	for i, sub := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", sub.Kind, sub.Reason)
	}
	return fmt.Sprintf("build config: %d errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *ConfigBuildError) Unwrap() []error {
	if e.Kind != ConfigMulti {
		if e.cause == nil {
			return nil
		}
		return []error{e.cause}
	}
	errs := make([]error, len(e.Errors))
	for i, sub := range e.Errors {
		errs[i] = sub
	}
	return errs
}

type SendErrorKind int

const (
	SendRequest SendErrorKind = iota + 1
	SendParseResponse
	SendExtractContent
	SendUnsupportedProvider
)

func (k SendErrorKind) String() string {
	switch k {
	case SendRequest:
		return "request"
	case SendParseResponse:
		return "parse response"
	case SendExtractContent:
		return "extract content"
	case SendUnsupportedProvider:
		return "unsupported provider"
	default:
		return fmt.Sprintf("send error kind(%d)", int(k))
	}
}

// SendError is returned by every failed send. Status is the HTTP status for
// non-success replies and zero otherwise.
type SendError struct {
	Kind   SendErrorKind
	Status int
	Err    error
}

func (e *SendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("send message: %s [%d]: %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("send message: %s: %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// APIError is the error envelope providers return with non-success statuses.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("provider error [%d]: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider error [%d]: %s (type: %s)", e.Status, e.Message, e.Type)
}
