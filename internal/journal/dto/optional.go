package dto

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field that distinguishes "omitted" from "explicitly null".
// Set is true once the field appeared in the request at all; Valid is false when
// the client sent null (or an empty form value) to clear the field.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON records presence before decoding, so an absent key keeps Set false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// UnmarshalParam implements echo's BindUnmarshaler so multipart form patches get
// the same absent-vs-clear semantics: a present-but-empty value clears the field.
func (o *Optional[T]) UnmarshalParam(param string) error {
	o.Set = true
	if param == "" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if s, ok := any(&o.Value).(*string); ok {
		*s = param
		o.Valid = true
		return nil
	}
	if err := json.Unmarshal([]byte(param), &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when the field is null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
