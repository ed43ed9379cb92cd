package tools

// Status indicates whether a tool call succeeded.
type Status string

const (
	// StatusSuccess marks a completed tool call with usable data.
	StatusSuccess Status = "success"
	// StatusError marks a failed tool call whose Error explains the cause.
	StatusError Status = "error"
)

// Error codes returned to the model in Result.Error.
const (
	// ErrCodeValidation marks bad or missing tool arguments.
	ErrCodeValidation = "InvalidArguments"
	// ErrCodeExecution marks a failure while performing the operation.
	ErrCodeExecution = "ExecutionFailed"
)

// Error is a structured tool failure for model consumption. The message
// is written so the model can relay it to the student directly.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the uniform envelope every tool returns. Business failures
// go in Error with StatusError rather than aborting the turn, letting
// the model explain the problem conversationally.
type Result struct {
	Status Status         `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
	Error  *Error         `json:"error,omitempty"`
}

// errorResult builds a StatusError envelope.
func errorResult(code, message string) Result {
	return Result{
		Status: StatusError,
		Error:  &Error{Code: code, Message: message},
	}
}
