package models

// Result is what every fallible session operation hands back instead of an
// error, so callers can render inline feedback directly.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func Ok(message string) Result { return Result{Success: true, Message: message} }

func Fail(message string) Result { return Result{Success: false, Error: message} }
