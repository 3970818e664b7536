package model

import "fmt"

// FieldError reports a single field violating its declared shape. Repositories
// wrap it as a ValidationError on input, the codec wraps it as a ShapeError on
// data read back from the store.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}
