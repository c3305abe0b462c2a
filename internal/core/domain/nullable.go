package domain

import "encoding/json"

// NullString is an optional, nullable string field of a partial update.
// Set is false when the key was absent from the payload; Value is nil when
// the key was present with a null value.
type NullString struct {
	Set   bool
	Value *string
}

// SetString returns a NullString carrying v
func SetString(v string) NullString {
	return NullString{Set: true, Value: &v}
}

// SetNull returns a NullString that explicitly clears the field
func SetNull() NullString {
	return NullString{Set: true}
}

// UnmarshalJSON is only called when the key is present
func (n *NullString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
