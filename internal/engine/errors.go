package engine

import "fmt"

// InvalidInputError rejects one input field. The message is display-ready;
// the field name says where to look. The engine never silently defaults a
// bad value, since a silent default would misstate a duty.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Field + ": " + e.Message
}

func invalidInput(field, format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a rate snapshot missing an entry a calculation
// needs. It is fatal for the whole call: in a batch every row would fail
// the same way, so the batch stops instead of recording it per row.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "rate configuration: " + e.Message
}

func configurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// RowProcessingError wraps a single row's failure inside a batch. It never
// aborts the batch.
type RowProcessingError struct {
	Row int
	Err error
}

func (e *RowProcessingError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowProcessingError) Unwrap() error {
	return e.Err
}
