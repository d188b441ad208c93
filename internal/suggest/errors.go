package suggest

import "fmt"

// FailureKind classifies how the pipeline terminated early. Every stage
// converts its collaborator failures into one of these; no raw error crosses
// the pipeline boundary.
type FailureKind string

const (
	FailureUnauthenticated    FailureKind = "unauthenticated"
	FailureValidation         FailureKind = "validation_failed"
	FailureAccessDenied       FailureKind = "access_denied"
	FailureQuotaExceeded      FailureKind = "quota_exceeded"
	FailureMissingInput       FailureKind = "missing_input"
	FailureHandlerUnavailable FailureKind = "handler_unavailable"
	FailureInternal           FailureKind = "internal_error"
)

// User-facing messages. Handler and internal failures deliberately share
// generic wording so engine errors never leak to callers.
const (
	MsgUnauthenticated    = "Authentication required"
	MsgQuotaExceeded      = "Daily AI request limit reached"
	MsgHandlerUnavailable = "AI suggestions are temporarily unavailable"
	MsgInternalError      = "Something went wrong processing your request"
	MsgValidationFailed   = "Request validation failed"
)

// PipelineError is a typed early termination of the request pipeline.
// Message is safe to show to callers; Err carries the internal cause for
// logging only.
type PipelineError struct {
	Kind        FailureKind
	Message     string
	FieldErrors map[string][]string
	Err         error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// UpgradeRequired reports whether the failure should carry an upgrade signal
// in the response envelope.
func (e *PipelineError) UpgradeRequired() bool {
	return e.Kind == FailureAccessDenied || e.Kind == FailureQuotaExceeded
}

func errUnauthenticated() *PipelineError {
	return &PipelineError{Kind: FailureUnauthenticated, Message: MsgUnauthenticated}
}

func errValidation(fieldErrors map[string][]string) *PipelineError {
	return &PipelineError{
		Kind:        FailureValidation,
		Message:     MsgValidationFailed,
		FieldErrors: fieldErrors,
	}
}

func errAccessDenied(message string) *PipelineError {
	return &PipelineError{Kind: FailureAccessDenied, Message: message}
}

func errQuotaExceeded() *PipelineError {
	return &PipelineError{Kind: FailureQuotaExceeded, Message: MsgQuotaExceeded}
}

func errMissingInput(message string) *PipelineError {
	return &PipelineError{Kind: FailureMissingInput, Message: message}
}

func errHandlerUnavailable(err error) *PipelineError {
	return &PipelineError{Kind: FailureHandlerUnavailable, Message: MsgHandlerUnavailable, Err: err}
}

func errInternal(err error) *PipelineError {
	return &PipelineError{Kind: FailureInternal, Message: MsgInternalError, Err: err}
}
