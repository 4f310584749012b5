package apperror

import "net/http"

// Error codes surfaced to callers. Stable across releases; clients match on
// these, not on HTTP status alone.
const (
	CodeInvalidLinkedInURL  = "INVALID_LINKEDIN_URL"
	CodeProfileNotFound     = "PROFILE_NOT_FOUND"
	CodeOrganizationMissing = "ORGANIZATION_NOT_FOUND"
	CodeJobNotFound         = "JOB_NOT_FOUND"
	CodeTemplateNotFound    = "TEMPLATE_NOT_FOUND"
	CodeAlreadyExists       = "PROFILE_ALREADY_EXISTS"
	CodeAdapterIncomplete   = "ADAPTER_INCOMPLETE"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeRateLimited         = "RATE_LIMITED"
	CodeJobNotRetryable     = "JOB_NOT_RETRYABLE"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL"
)

// AppError is the single error type that crosses the usecase/delivery
// boundary. Code is the HTTP status; ErrorCode is the stable caller-visible
// taxonomy entry from §7 of the spec.
type AppError struct {
	Code        int         `json:"code"`
	ErrorCode   string      `json:"error_code"`
	Message     string      `json:"message"`
	Details     interface{} `json:"details,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Err         error       `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, errorCode, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		ErrorCode: errorCode,
		Message:   message,
		Err:       err,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = suggestions
	return e
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, CodeValidation, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeProfileNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, CodeInternal, "Internal Server Error", err)
}

// InvalidLinkedInURL reports a syntactically invalid profile URL.
func InvalidLinkedInURL(message string) *AppError {
	return New(http.StatusBadRequest, CodeInvalidLinkedInURL, message, nil)
}

// ProfileNotFound reports a missing profile by the given identifier.
func ProfileNotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeProfileNotFound, message, nil)
}

// OrganizationNotFound reports a missing organization.
func OrganizationNotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeOrganizationMissing, message, nil)
}

// JobNotFound reports a missing scoring job.
func JobNotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeJobNotFound, message, nil)
}

// TemplateNotFound reports a missing prompt template.
func TemplateNotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeTemplateNotFound, message, nil)
}

// AlreadyExists reports a duplicate profile ingestion, carrying the id of
// the record already on file so the caller can fetch it directly.
func AlreadyExists(existingProfileID string) *AppError {
	return New(http.StatusConflict, CodeAlreadyExists, "A profile with this URL already exists", nil).
		WithDetails(map[string]string{"existing_profile_id": existingProfileID}).
		WithSuggestions("use GET /api/v1/profiles/{id}")
}

// AdapterIncomplete reports that the upstream payload was missing essential
// fields; missing enumerates the canonical field paths.
func AdapterIncomplete(missing []string) *AppError {
	return New(http.StatusUnprocessableEntity, CodeAdapterIncomplete, "Upstream payload is missing required fields", nil).
		WithDetails(map[string]interface{}{"missing_fields": missing})
}

// UpstreamUnavailable reports an exhausted-retry failure talking to an
// external collaborator (workflow service or LLM provider).
func UpstreamUnavailable(retryable bool, err error) *AppError {
	status := http.StatusBadGateway
	if !retryable {
		status = http.StatusServiceUnavailable
	}
	return New(status, CodeUpstreamUnavailable, "Upstream service is unavailable", err).
		WithDetails(map[string]bool{"retryable": retryable})
}

// RateLimited reports a local or upstream rate limit breach.
func RateLimited(message string) *AppError {
	return New(http.StatusTooManyRequests, CodeRateLimited, message, nil)
}

// JobNotRetryable reports a retry attempt on a job that is not in a
// retryable state (not failed, or retry_count already exhausted).
func JobNotRetryable(message string) *AppError {
	return New(http.StatusBadRequest, CodeJobNotRetryable, message, nil)
}
