package types

import (
	"reflect"
	"strings"
)

// Semantic type tags reported in tool listings.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// ParameterDescriptor describes one formal parameter of a tool.
type ParameterDescriptor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Optional    bool   `json:"-"`
}

// ToolInfo is a tool's listing entry.
type ToolInfo struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Parameters  []ParameterDescriptor `json:"parameters"`
}

// Describe builds the listing entry for a tool whose parameters are the
// exported fields of params. A nil or non-struct params type describes a tool
// without parameters.
func Describe(name string, params reflect.Type, doc DocInfo) ToolInfo {
	return ToolInfo{
		Name:        name,
		Description: doc.Description,
		Parameters:  Parameters(params, doc),
	}
}

// Parameters lists the descriptors for params in field declaration order.
func Parameters(params reflect.Type, doc DocInfo) []ParameterDescriptor {
	fields := paramFields(params)
	out := make([]ParameterDescriptor, 0, len(fields))
	for _, f := range fields {
		out = append(out, ParameterDescriptor{
			Name:        f.name,
			Type:        f.typeTag,
			Description: doc.Params[f.name],
			Optional:    f.optional,
		})
	}
	return out
}

// RequiredNames returns the names of the non-optional parameters in declaration order.
func RequiredNames(params []ParameterDescriptor) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		if !p.Optional {
			names = append(names, p.Name)
		}
	}
	return names
}

type paramField struct {
	name     string
	typeTag  string
	optional bool
}

func paramFields(t reflect.Type) []paramField {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []paramField
	for i := range t.NumField() {
		sf := t.Field(i)
		jsonName, jsonOpts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if jsonName == "-" && jsonOpts == "" {
			continue
		}

		if sf.Anonymous && jsonName == "" {
			embedded := sf.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				fields = append(fields, paramFields(embedded)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		name := jsonName
		if name == "" {
			name = sf.Name
		}

		typeTag := semanticType(sf.Type)
		optional := sf.Type.Kind() == reflect.Pointer || hasOption(jsonOpts, "omitempty")
		for opt := range strings.SplitSeq(sf.Tag.Get("tool"), ",") {
			opt = strings.TrimSpace(opt)
			if override, ok := strings.CutPrefix(opt, "type="); ok && override != "" {
				typeTag = override
			}
			if opt == "optional" {
				optional = true
			}
		}

		fields = append(fields, paramField{name: name, typeTag: typeTag, optional: optional})
	}
	return fields
}

func semanticType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	default:
		return TypeString
	}
}

func hasOption(opts, want string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == want {
			return true
		}
	}
	return false
}
