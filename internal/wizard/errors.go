package wizard

import "fmt"

// ValidationError is a user-facing reason a step cannot be left.
type ValidationError struct {
	Step    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Step != "" && e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Step, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

// Invalid builds a ValidationError for field. The controller fills in the step.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Required is the error for an empty mandatory field.
func Required(field string) error {
	return Invalid(field, fmt.Sprintf("%s is required", field))
}
