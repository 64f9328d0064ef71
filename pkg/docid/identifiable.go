package docid

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// IDField is the document property holding the id.
const IDField = "id"

// ErrMissingID is returned when a document has no usable id.
var ErrMissingID = errors.New("document has no id")

// Identifiable is implemented by documents that know their own id.
type Identifiable interface {
	GetID() string
}

// Map adapts a plain key/value document to Identifiable.
type Map map[string]interface{}

// GetID returns the "id" property when it is a string.
func (m Map) GetID() string {
	id, _ := m[IDField].(string)
	return id
}

// Compile-time checks
var (
	_ Identifiable = Map(nil)
	_ Identifiable = UUID{}
)

// IDOf returns the id of doc. Values that do not implement Identifiable fall
// back to looking up the "id" field directly.
func IDOf(doc interface{}) (string, error) {
	var id string

	switch d := doc.(type) {
	case nil:
		return "", ErrMissingID
	case Identifiable:
		id = d.GetID()
	case map[string]interface{}:
		id = Map(d).GetID()
	default:
		fields, err := fieldsOf(doc)
		if err != nil {
			return "", err
		}
		id = fields.GetID()
	}

	if id == "" {
		return "", ErrMissingID
	}
	return id, nil
}

// fieldsOf flattens a struct into its json-named top-level fields.
func fieldsOf(doc interface{}) (Map, error) {
	fields := Map{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to inspect document of type %T: %w", doc, err)
	}
	return fields, nil
}

// EnsureID returns the id of doc, assigning a new random one when the
// document has none.
func EnsureID(doc map[string]interface{}) string {
	if id := Map(doc).GetID(); id != "" {
		return id
	}
	id := NewUUID().String()
	doc[IDField] = id
	return id
}
