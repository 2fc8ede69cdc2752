package types

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// Tool defines the contract for all tools
type Tool interface {
	Name() string
	Info() ToolInfo
	Params() []ParameterDescriptor
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Registrar is implemented by anything tools can be registered into.
type Registrar interface {
	RegisterTool(tool Tool) error
}

// Func is the body of a tool taking its decoded parameter struct.
type Func[P any] func(ctx context.Context, params P) (any, error)

type typedTool[P any] struct {
	name string
	doc  DocInfo
	fn   Func[P]
}

// New builds a Tool whose formal parameters are the fields of P. The doc
// comment is parsed once here.
func New[P any](name, doc string, fn Func[P]) Tool {
	return &typedTool[P]{
		name: name,
		doc:  ParseDoc(doc),
		fn:   fn,
	}
}

func (t *typedTool[P]) Name() string { return t.name }

func (t *typedTool[P]) Info() ToolInfo {
	return Describe(t.name, reflect.TypeFor[P](), t.doc)
}

func (t *typedTool[P]) Params() []ParameterDescriptor {
	return Parameters(reflect.TypeFor[P](), t.doc)
}

func (t *typedTool[P]) Call(ctx context.Context, args map[string]any) (any, error) {
	params, err := Bind[P](t.name, args)
	if err != nil {
		return nil, err
	}
	return t.fn(ctx, params)
}

// Bind decodes args into a fresh P. Unknown keys, missing required keys and
// values of the wrong type are reported as *ArgumentMismatchError.
func Bind[P any](tool string, args map[string]any) (P, error) {
	var params P
	descriptors := Parameters(reflect.TypeFor[P](), DocInfo{})

	accepted := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		accepted = append(accepted, d.Name)
	}
	required := RequiredNames(descriptors)

	received := make([]string, 0, len(args))
	for key := range args {
		received = append(received, key)
	}
	sort.Strings(received)

	var unexpected []string
	for _, key := range received {
		if !slices.Contains(accepted, key) {
			unexpected = append(unexpected, key)
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(unexpected) > 0 || len(missing) > 0 {
		return params, NewArgumentMismatch(tool, missing, unexpected, required, accepted, received)
	}

	if len(args) == 0 {
		return params, nil
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return params, &ArgumentMismatchError{
			Tool:     tool,
			Reason:   fmt.Sprintf("arguments cannot be encoded: %v", err),
			Required: required,
			Accepted: accepted,
			Received: received,
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		reason := err.Error()
		if typeErr, ok := errors.AsType[*json.UnmarshalTypeError](err); ok {
			reason = fmt.Sprintf("parameter %q expects %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return params, &ArgumentMismatchError{
			Tool:     tool,
			Reason:   reason,
			Required: required,
			Accepted: accepted,
			Received: received,
		}
	}
	return params, nil
}
