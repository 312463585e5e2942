// Package domain defines the core domain models for ipadmin.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend identifier. The backend emits numeric keys for some
// resources and string keys for others, so both JSON forms are accepted.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// Values is an attribute map recorded in audit entries. The backend encodes an
// empty set as [] rather than {}.
type Values map[string]any

// UnmarshalJSON accepts an object, an empty array or null.
func (v *Values) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var arr []any
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) != 0 {
			return fmt.Errorf("values: expected object or empty array, got array of %d", len(arr))
		}
		*v = Values{}
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*v = m
	return nil
}
