package apidoc

import (
	"fmt"
)

// legacyParameterKeys are lifted into the parameter schema.
var legacyParameterKeys = []string{"type", "format", "items", "enum", "default"}

// Extract converts an operation object into its OpenAPI form and returns it
// with the schema definitions of the models it uses. op is not modified.
//
// A reqparser entry is expanded into parameters and a request body, legacy
// parameter fields are moved into schema, "in: body" parameters become the
// request body, path parameters are marked required and every [Model] is
// replaced by a reference to its definition.
func Extract(op Object) (Object, Object, error) {
	return extractor{}.extract(op)
}

type extractor struct{}

func (x extractor) extract(op Object) (Object, Object, error) {
	out := op.Copy()
	if out == nil {
		out = Object{}
	}
	if err := expandReqParser(out); err != nil {
		return nil, nil, err
	}
	if err := ValidateOperationObject(out); err != nil {
		return nil, nil, err
	}
	if err := normalizeParameters(out); err != nil {
		return nil, nil, err
	}

	schemas := Object{}
	extracted, err := x.schemas(out, schemas)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateComponentsObject(Object{"schemas": schemas}); err != nil {
		return nil, nil, err
	}
	return extracted.(Object), schemas, nil
}

// schemas replaces models found anywhere under v with references and
// collects their definitions into defs.
func (x extractor) schemas(v any, defs Object) (any, error) {
	if m, ok := v.(Model); ok {
		return x.model(m, defs)
	}
	if obj, ok := v.(Object); ok {
		for k, val := range obj {
			nv, err := x.schemas(val, defs)
			if err != nil {
				return nil, err
			}
			obj[k] = nv
		}
		return obj, nil
	}
	if list, ok := v.([]any); ok {
		for i := range list {
			nv, err := x.schemas(list[i], defs)
			if err != nil {
				return nil, err
			}
			list[i] = nv
		}
		return list, nil
	}
	return v, nil
}

func (x extractor) model(m Model, defs Object) (any, error) {
	name := m.ModelName()
	if name == "" {
		return nil, fmt.Errorf("%T is not a named model", m)
	}
	ref := Ref(name)
	// Already collected, or a model referring to itself.
	if _, ok := defs[name]; ok {
		return ref, nil
	}
	def, err := m.Definition()
	if err != nil {
		return nil, err
	}
	defs[name] = def
	nested, err := x.schemas(Object(def), defs)
	if err != nil {
		return nil, err
	}
	defs[name] = nested
	return ref, nil
}

// normalizeParameters rewrites parameters into their OpenAPI 3 form.
func normalizeParameters(op Object) error {
	v, ok := op["parameters"]
	if !ok {
		return nil
	}
	params, _ := asList(v)
	kept := make([]any, 0, len(params))
	for i, p := range params {
		param, _ := asObject(p)
		if isReference(param) {
			kept = append(kept, param)
			continue
		}
		liftLegacyFields(param)
		switch stringValue(param, "in") {
		case "path":
			param["required"] = true
		case "body":
			if _, ok := op["requestBody"]; ok {
				return validationErrorf(fmt.Sprintf("parameters[%d]", i), "body parameter and requestBody can't be in same operation")
			}
			op["requestBody"] = bodyFromParameter(param)
			continue
		}
		kept = append(kept, param)
	}
	if len(kept) == 0 {
		delete(op, "parameters")
		return nil
	}
	op["parameters"] = kept
	return nil
}

func liftLegacyFields(param Object) {
	if _, ok := param["schema"]; ok {
		return
	}
	if _, ok := param["content"]; ok {
		return
	}
	schema := Object{}
	for _, k := range legacyParameterKeys {
		if v, ok := param[k]; ok {
			schema[k] = v
			delete(param, k)
		}
	}
	if len(schema) > 0 {
		param["schema"] = schema
	}
}

func bodyFromParameter(param Object) Object {
	body := Object{
		"content": Object{
			"application/json": Object{"schema": param["schema"]},
		},
	}
	if d, ok := param["description"]; ok {
		body["description"] = d
	}
	if r, ok := param["required"]; ok {
		body["required"] = r
	}
	return body
}
