package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"encoding/json"
	"errors"
)

// Shaped is implemented by every domain record: Shape reports the first field
// violating the record's declared shape (missing required field, enum value
// outside its set).
type Shaped interface {
	Shape() error
}

// EncodeRecord serializes a record to its flat JSON wire form. Timestamp
// fields are rendered as RFC 3339 text with nanosecond precision (the
// encoding/json representation of time.Time), so the textual round trip is
// lossless. The wire format is text-only; no native time values are stored.
func EncodeRecord(rec interface{}) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeRecord parses a stored JSON value back into rec and validates its
// shape. Malformed JSON yields a DecodeError, a well-formed record with
// missing required fields or out-of-domain enum values yields a ShapeError.
// The key is carried in the error for log context only.
func DecodeRecord(key, data string, rec Shaped) error {
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return &util.DecodeError{Key: key, Err: err}
	}
	if err := rec.Shape(); err != nil {
		return &util.ShapeError{Key: key, Err: err}
	}
	return nil
}

// asValidation converts a shape violation on caller-supplied input into the
// ValidationError the repository contract promises.
func asValidation(err error) error {
	var fe *model.FieldError
	if errors.As(err, &fe) {
		return &util.ValidationError{Field: fe.Field, Reason: fe.Reason}
	}
	return err
}
