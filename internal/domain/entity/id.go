package entity

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidID is returned when a JSON id is neither a string nor a number.
var ErrInvalidID = errors.New("id must be a JSON string or number")

// ID identifies a backend record. The backend emits numeric ids; the frontend
// only ever passes them back, so they are kept as opaque strings.
type ID string

// UnmarshalJSON accepts both 42 and "42".
// PRE: data is a JSON value
// POST: ID holds the textual form of the value; null leaves it empty
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
		return ErrInvalidID
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so the backend can bind them to Long fields.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if json.Valid([]byte(id)) && isNumeric(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id text.
func (id ID) String() string {
	return string(id)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
