package openapi

import (
	"path"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

var timeType = reflect.TypeOf(time.Time{})

// schemaRegistry turns Go types into component schemas. Named structs are
// registered once under their type name and referenced afterwards.
type schemaRegistry struct {
	components openapi3.Schemas
	names      map[reflect.Type]string
}

func newSchemaRegistry(components openapi3.Schemas) *schemaRegistry {
	return &schemaRegistry{components: components, names: make(map[reflect.Type]string)}
}

func (r *schemaRegistry) refFor(example any) *openapi3.SchemaRef {
	if example == nil {
		return openapi3.NewObjectSchema().NewRef()
	}
	return r.fromType(reflect.TypeOf(example))
}

func (r *schemaRegistry) fromType(t reflect.Type) *openapi3.SchemaRef {
	if t.Kind() == reflect.Pointer {
		ref := r.fromType(t.Elem())
		if ref.Value != nil {
			ref.Value.Nullable = true
		}
		return ref
	}

	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema().NewRef()
	case reflect.Bool:
		return openapi3.NewBoolSchema().NewRef()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return openapi3.NewIntegerSchema().NewRef()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().WithMin(0).NewRef()
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema().NewRef()
	case reflect.Slice, reflect.Array:
		return openapi3.NewArraySchema().WithItems(r.fromType(t.Elem()).Value).NewRef()
	case reflect.Map:
		return openapi3.NewObjectSchema().WithAdditionalProperties(r.fromType(t.Elem()).Value).NewRef()
	case reflect.Struct:
		if t == timeType {
			return openapi3.NewDateTimeSchema().NewRef()
		}
		return r.structRef(t)
	default:
		return openapi3.NewObjectSchema().NewRef()
	}
}

func (r *schemaRegistry) structRef(t reflect.Type) *openapi3.SchemaRef {
	if t.Name() == "" {
		return r.buildStruct(t).NewRef()
	}

	if name, ok := r.names[t]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
	}

	name := t.Name()
	if _, taken := r.components[name]; taken {
		name = qualifiedName(t)
	}
	r.names[t] = name
	r.components[name] = r.buildStruct(t).NewRef()
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func (r *schemaRegistry) buildStruct(t reflect.Type) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		prop := r.fromType(field.Type)
		if prop.Ref == "" && prop.Value != nil {
			decorate(prop.Value, field)
		}
		schema.WithPropertyRef(name, prop)

		if isRequired(field, omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	return name, slices.Contains(parts[1:], "omitempty"), false
}

// isRequired prefers validate tags; without one, omitempty marks optional.
func isRequired(field reflect.StructField, omitEmpty bool) bool {
	if rules, ok := field.Tag.Lookup("validate"); ok {
		return slices.Contains(strings.Split(rules, ","), "required")
	}
	return !omitEmpty
}

func decorate(schema *openapi3.Schema, field reflect.StructField) {
	if doc := field.Tag.Get("doc"); doc != "" {
		schema.Description = doc
	}
	if example := field.Tag.Get("example"); example != "" {
		schema.Example = example
	}

	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		key, value, _ := strings.Cut(rule, "=")
		switch key {
		case "email":
			schema.Format = "email"
		case "oneof":
			for _, option := range strings.Fields(value) {
				schema.Enum = append(schema.Enum, option)
			}
		}
	}
}

// qualifiedName prefixes the type name with its package, so contact.Request
// becomes ContactRequest.
func qualifiedName(t reflect.Type) string {
	pkg := path.Base(t.PkgPath())
	if pkg == "" || pkg == "." {
		return t.Name()
	}
	return strings.ToUpper(pkg[:1]) + pkg[1:] + t.Name()
}
