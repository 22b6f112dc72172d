package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// JSON schema types understood by every provider.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Schema is the provider-neutral subset of JSON Schema used for structured
// output. Providers translate it into their own request shape.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	// Order lists property names in the order they should be generated.
	Order []string `json:"-"`
}

// Object builds an object schema whose properties are all required, in the
// order given.
func Object(props ...Property) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(props))}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		s.Required = append(s.Required, p.Name)
		s.Order = append(s.Order, p.Name)
	}
	return s
}

// Property pairs a property name with its schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Prop is shorthand for a Property.
func Prop(name string, schema *Schema) Property { return Property{Name: name, Schema: schema} }

// String returns a string schema, optionally constrained to values.
func String(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

// Number returns a number schema.
func Number() *Schema { return &Schema{Type: TypeNumber} }

// ArrayOf returns an array schema with the given item schema.
func ArrayOf(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }

// Describe sets the description and returns s.
func (s *Schema) Describe(text string) *Schema {
	s.Description = text
	return s
}

// PropertyNames returns the property names in generation order.
func (s *Schema) PropertyNames() []string {
	if len(s.Order) == len(s.Properties) {
		return s.Order
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SchemaError pinpoints where a payload departs from its schema.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "payload " + e.Reason
	}
	return fmt.Sprintf("field %s %s", e.Path, e.Reason)
}

// Validate checks that raw strictly conforms to s: required properties present
// and non-blank, primitive types correct, enum values drawn from the list.
// Unknown properties are tolerated.
func (s *Schema) Validate(raw []byte) error {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &SchemaError{Reason: "is not valid JSON: " + err.Error()}
	}
	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	err = compiled.Validate(value)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return schemaError(verr)
	}
	return err
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(s.document())
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
}

const schemaURL = "generation.json"

// Strings must carry at least one non-space character.
const nonBlank = `\S`

func (s *Schema) document() map[string]any {
	doc := map[string]any{"type": s.Type}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, child := range s.Properties {
			if child != nil {
				props[name] = child.document()
			}
		}
		doc["properties"] = props
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	if len(s.Enum) > 0 {
		doc["enum"] = s.Enum
	}
	if s.Items != nil {
		doc["items"] = s.Items.document()
	}
	if s.Type == TypeString {
		doc["pattern"] = nonBlank
	}
	return doc
}

func schemaError(err *jsonschema.ValidationError) *SchemaError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	path := instancePath(err.InstanceLocation)
	switch k := err.ErrorKind.(type) {
	case *kind.Required:
		if len(k.Missing) > 0 {
			return &SchemaError{Path: join(path, k.Missing[0]), Reason: "is missing"}
		}
	case *kind.Type:
		if k.Got == "null" {
			return &SchemaError{Path: path, Reason: "is null"}
		}
		if len(k.Want) > 0 {
			return &SchemaError{Path: path, Reason: "must be " + article(k.Want[0]) + " " + k.Want[0]}
		}
	case *kind.Pattern:
		return &SchemaError{Path: path, Reason: "is empty"}
	case *kind.Enum:
		want := make([]string, 0, len(k.Want))
		for _, v := range k.Want {
			want = append(want, fmt.Sprint(v))
		}
		return &SchemaError{Path: path, Reason: fmt.Sprintf("%q is not one of %s", fmt.Sprint(k.Got), strings.Join(want, ", "))}
	}
	return &SchemaError{Path: path, Reason: err.ErrorKind.LocalizedString(message.NewPrinter(language.English))}
}

func instancePath(location []string) string {
	var b strings.Builder
	for _, token := range location {
		if _, err := strconv.Atoi(token); err == nil && b.Len() > 0 {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

func article(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an"
	}
	return "a"
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
