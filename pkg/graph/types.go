package graph

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
)

// Object is a directory object as returned by the API. Its shape depends on
// the object type, so fields are kept as decoded JSON values.
type Object map[string]interface{}

// ObjectType returns the "objectType" discriminator, or "" when absent.
func (o Object) ObjectType() string {
	return o.String(constants.ObjectTypeField)
}

// ObjectID returns the "objectId" field, or "" when absent.
func (o Object) ObjectID() string {
	return o.String(constants.ObjectIDField)
}

// String returns field formatted as text. Missing and null fields yield "".
func (o Object) String(field string) string {
	value, ok := o[field]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case bool, float64:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	}
}

// Page is one page of a collection response.
type Page struct {
	Metadata string   `json:"odata.metadata,omitempty" yaml:"metadata,omitempty"`
	Value    []Object `json:"value"                    yaml:"value"`
	NextLink string   `json:"odata.nextLink,omitempty" yaml:"next_link,omitempty"`
}

// HasNext reports whether another page follows.
func (p *Page) HasNext() bool {
	return p.NextLink != ""
}

// Unwrap returns the "value" field of a collection envelope. Bodies that are
// not JSON objects, or that carry no non-null "value", are returned unchanged.
func Unwrap(body json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}

	var envelope map[string]json.RawMessage

	err := json.Unmarshal(trimmed, &envelope)
	if err != nil {
		return body
	}

	value, ok := envelope[constants.ValueField]
	if !ok || string(bytes.TrimSpace(value)) == "null" {
		return body
	}

	return value
}
