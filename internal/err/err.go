package err

import "strings"

// ErrorsBucket collects the failures of a multi-item operation so they can be
// reported as one error.
type ErrorsBucket struct {
	Msg    string
	Errors []error
}

// Add records err. Nil errors are ignored.
func (e *ErrorsBucket) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// Len returns the number of collected errors.
func (e *ErrorsBucket) Len() int {
	return len(e.Errors)
}

// ErrorOrNil returns the bucket when it holds at least one error.
func (e *ErrorsBucket) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

func (e *ErrorsBucket) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Msg)
	for _, err := range e.Errors {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ErrorsBucket) Unwrap() []error {
	return e.Errors
}
