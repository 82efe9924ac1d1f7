package engine

// BatchError reports a structural failure of a whole batch. Message is safe to
// return to clients; Err carries the cause for logging and errors.Is.
type BatchError struct {
	Message string
	Err     error
}

func (e *BatchError) Error() string {
	return e.Message
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
