package core

import (
	"bytes"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema describes the configurable options of a skill. It is a tree: every
// field is either a leaf carrying a type tag or a nested sub-schema. Field
// order follows the order of the keys in manifest.json.
type Schema struct {
	Fields []SchemaField
}

// SchemaField is one key of a Schema.
type SchemaField struct {
	Key string
	// Type is the leaf type tag, e.g. "string". For list leaves it is the
	// element tag, if any.
	Type string
	// List marks a leaf declared as a JSON array.
	List bool
	// Nested is set for sub-schemas; such fields are not leaves.
	Nested *Schema
}

// IsLeaf reports whether the field is prompted for directly.
func (f SchemaField) IsLeaf() bool { return f.Nested == nil }

// Len returns the number of top-level fields. A nil schema has none.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}

// Keys returns the top-level keys in order.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Lookup returns the field stored under key.
func (s *Schema) Lookup(key string) (SchemaField, bool) {
	if s != nil {
		for _, f := range s.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return SchemaField{}, false
}

// Set adds a field, replacing any existing field with the same key in place.
func (s *Schema) Set(f SchemaField) {
	for i := range s.Fields {
		if s.Fields[i].Key == f.Key {
			s.Fields[i] = f
			return
		}
	}
	s.Fields = append(s.Fields, f)
}

// MarshalJSON writes the schema as an object, keeping field order.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		switch {
		case f.Nested != nil:
			val, err = f.Nested.MarshalJSON()
		case f.List && f.Type == "":
			val = []byte("[]")
		case f.List:
			val, err = json.Marshal([]string{f.Type})
		default:
			val, err = json.Marshal(f.Type)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a schema object. Values that are neither a type tag,
// an array nor an object carry no prompt and are dropped.
func (s *Schema) UnmarshalJSON(data []byte) error {
	parsed, err := decodeSchema(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// JSONSchema describes the schema_config value for the manifest JSON Schema.
func (Schema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Option tree: leaves are type tags such as \"string\", objects are nested option groups",
	}
}

func decodeSchema(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "reading schema")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("schema must be a JSON object")
	}

	s := &Schema{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading schema key")
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, "reading schema value for %q", key)
		}
		field, ok, err := decodeField(key, raw)
		if err != nil {
			return nil, err
		}
		if ok {
			s.Set(field)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "reading schema")
	}
	return s, nil
}

func decodeField(key string, raw json.RawMessage) (SchemaField, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return SchemaField{}, false, nil
	}
	field := SchemaField{Key: key}
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &field.Type); err != nil {
			return SchemaField{}, false, errors.Wrapf(err, "schema key %q", key)
		}
	case '[':
		var items []any
		if err := json.Unmarshal(raw, &items); err != nil {
			return SchemaField{}, false, errors.Wrapf(err, "schema key %q", key)
		}
		field.List = true
		if len(items) > 0 {
			field.Type, _ = items[0].(string)
		}
	case '{':
		nested, err := decodeSchema(raw)
		if err != nil {
			return SchemaField{}, false, errors.Wrapf(err, "schema key %q", key)
		}
		field.Nested = nested
	default:
		return SchemaField{}, false, nil
	}
	return field, true, nil
}
