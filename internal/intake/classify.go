package intake

import "strings"

// ErrorType buckets a failed submission for user-facing messaging.
type ErrorType string

const (
	ErrorNetwork    ErrorType = "network"
	ErrorValidation ErrorType = "validation"
	ErrorServer     ErrorType = "server"
	ErrorRateLimit  ErrorType = "rate_limit"
	ErrorUnknown    ErrorType = "unknown"
)

// SubmissionError describes why a submission failed and whether a retry
// is worth attempting.
type SubmissionError struct {
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e SubmissionError) Error() string {
	return string(e.Type) + ": " + e.Message
}

// Classify maps an underlying transport or server error to a SubmissionError.
// Matching is on substrings of the error text, case-insensitive.
func Classify(err error) SubmissionError {
	if err == nil {
		return SubmissionError{
			Type:      ErrorUnknown,
			Message:   "An unexpected error occurred",
			Retryable: true,
		}
	}

	s := strings.ToLower(err.Error())

	switch {
	case strings.Contains(s, "fetch"), strings.Contains(s, "network"), strings.Contains(s, "timeout"):
		return SubmissionError{
			Type:      ErrorNetwork,
			Message:   "Network connection failed. Please check your internet and try again.",
			Retryable: true,
		}
	case strings.Contains(s, "429"), strings.Contains(s, "rate"):
		return SubmissionError{
			Type:      ErrorRateLimit,
			Message:   "Too many requests. Please wait a few minutes before trying again.",
			Retryable: true,
		}
	case strings.Contains(s, "validation"), strings.Contains(s, "invalid"):
		return SubmissionError{
			Type:      ErrorValidation,
			Message:   "Please check your information and try again.",
			Retryable: false,
		}
	case strings.Contains(s, "500"), strings.Contains(s, "server"):
		return SubmissionError{
			Type:      ErrorServer,
			Message:   "Our server is experiencing issues. Please try again later or call us.",
			Retryable: true,
		}
	default:
		return SubmissionError{
			Type:      ErrorUnknown,
			Message:   "Failed to send your request. Please try again or contact us directly.",
			Retryable: true,
		}
	}
}
