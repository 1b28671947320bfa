package event

import "fmt"

// DecodeErrorKind classifies why a raw update could not be decoded.
type DecodeErrorKind string

// Decode failure kinds.
const (
	// UnknownType means the type discriminator is not recognized.
	UnknownType DecodeErrorKind = "unknown_type"
	// MissingField means a required payload field is absent.
	MissingField DecodeErrorKind = "missing_field"
	// MalformedValue means the payload could not be parsed or a field has
	// the wrong shape.
	MalformedValue DecodeErrorKind = "malformed_value"
)

// DecodeError reports a single undecodable update. Decode errors are
// non-fatal: the dispatcher logs and skips the update.
type DecodeError struct {
	Kind    DecodeErrorKind
	EventID int64
	Type    string
	// Field names the offending payload field for MissingField errors.
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case UnknownType:
		return fmt.Sprintf("event: update %d has unknown type %q", e.EventID, e.Type)
	case MissingField:
		return fmt.Sprintf("event: update %d (%s) missing field %q", e.EventID, e.Type, e.Field)
	default:
		return fmt.Sprintf("event: update %d (%s) malformed payload: %v", e.EventID, e.Type, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }
