package serrors

import "fmt"

// BaseError is a coded error that carries a stable machine-readable code,
// a human-readable message and optional template data with the offending
// identifiers.
type BaseError struct {
	code         string
	message      string
	localeKey    string
	templateData map[string]string
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		code:      code,
		message:   message,
		localeKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	if len(e.templateData) == 0 {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
	return fmt.Sprintf("%s: %s %v", e.code, e.message, e.templateData)
}

func (e *BaseError) Code() string      { return e.code }
func (e *BaseError) LocaleKey() string { return e.localeKey }

func (e *BaseError) TemplateData() map[string]string {
	out := make(map[string]string, len(e.templateData))
	for k, v := range e.templateData {
		out[k] = v
	}
	return out
}

// WithTemplateData returns a copy of the error enriched with identifiers.
// The receiver is not mutated so package-level sentinel errors stay safe to share.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	merged := make(map[string]string, len(e.templateData)+len(data))
	for k, v := range e.templateData {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	return &BaseError{
		code:         e.code,
		message:      e.message,
		localeKey:    e.localeKey,
		templateData: merged,
	}
}

// Is matches two BaseErrors by code, so errors.Is works across WithTemplateData copies.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.code == e.code
}
