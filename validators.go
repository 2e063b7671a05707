package apidoc

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

var (
	pathItemKeys = keySet("$ref", "summary", "description", "get", "put", "post", "delete",
		"options", "head", "patch", "trace", "servers", "parameters")
	operationKeys = keySet("tags", "summary", "description", "externalDocs", "operationId",
		"parameters", "requestBody", "responses", "callbacks", "deprecated", "security", "servers")
	// type, format, items, enum and default are the pre-3.0 parameter form;
	// extraction lifts them into schema.
	parameterKeys = keySet("name", "in", "description", "required", "deprecated",
		"allowEmptyValue", "style", "explode", "allowReserved", "schema", "example", "examples",
		"content", "type", "format", "items", "enum", "default")
	responseKeys    = keySet("description", "headers", "content", "links")
	requestBodyKeys = keySet("description", "content", "required")
	mediaTypeKeys   = keySet("schema", "example", "examples", "encoding")
	componentKeys   = keySet("schemas", "responses", "parameters", "examples", "requestBodies",
		"headers", "securitySchemes", "links", "callbacks")

	pathItemMethods  = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}
	parameterIn      = []string{"query", "header", "path", "cookie", "body"}
	schemaTypes      = []string{"array", "boolean", "integer", "number", "object", "string"}
	schemaListKeys   = []string{"allOf", "anyOf", "oneOf"}
	statusCodeRegexp = regexp.MustCompile(`^([1-5][0-9][0-9]|[1-5]XX|default)$`)
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// checkKeys rejects keys outside allowed. Specification extensions (x-*) are
// always accepted.
func checkKeys(path, kind string, obj Object, allowed map[string]bool) error {
	var unknown []string
	for k := range obj {
		if allowed[k] || strings.HasPrefix(k, "x-") {
			continue
		}
		unknown = append(unknown, k)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return validationErrorf(path, "invalid %s field(s): %s", kind, strings.Join(unknown, ", "))
}

func objectAt(path, kind string, v any) (Object, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, validationErrorf(path, "%s must be an object, got %T", kind, v)
	}
	return obj, nil
}

func isReference(obj Object) bool {
	_, ok := obj["$ref"]
	return ok
}

// ValidatePathItemObject checks obj against the OpenAPI Path Item Object.
func ValidatePathItemObject(obj Object) error {
	return validatePathItem("", obj)
}

func validatePathItem(path string, obj Object) error {
	if err := checkKeys(path, "path item", obj, pathItemKeys); err != nil {
		return err
	}
	for _, m := range pathItemMethods {
		v, ok := obj[m]
		if !ok {
			continue
		}
		op, err := objectAt(join(path, m), "operation", v)
		if err != nil {
			return err
		}
		if err := validateOperation(join(path, m), op); err != nil {
			return err
		}
	}
	if v, ok := obj["parameters"]; ok {
		if err := validateParameters(join(path, "parameters"), v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOperationObject checks obj against the OpenAPI Operation Object.
// Responses are mandatory.
func ValidateOperationObject(obj Object) error {
	return validateOperation("", obj)
}

func validateOperation(path string, obj Object) error {
	if err := checkKeys(path, "operation", obj, operationKeys); err != nil {
		return err
	}
	if v, ok := obj["tags"]; ok {
		if _, ok := asList(v); !ok {
			return validationErrorf(join(path, "tags"), "tags must be a list")
		}
	}
	if v, ok := obj["parameters"]; ok {
		if err := validateParameters(join(path, "parameters"), v); err != nil {
			return err
		}
	}
	if v, ok := obj["requestBody"]; ok {
		rb, err := objectAt(join(path, "requestBody"), "request body", v)
		if err != nil {
			return err
		}
		if err := validateRequestBodyOrReference(join(path, "requestBody"), rb); err != nil {
			return err
		}
	}
	v, ok := obj["responses"]
	if !ok {
		return validationErrorf(path, "operation must have responses")
	}
	responses, err := objectAt(join(path, "responses"), "responses", v)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		return validationErrorf(join(path, "responses"), "responses must not be empty")
	}
	for code, r := range responses {
		p := join(join(path, "responses"), code)
		if !statusCodeRegexp.MatchString(code) && !strings.HasPrefix(code, "x-") {
			return validationErrorf(p, "invalid response code %q", code)
		}
		resp, err := objectAt(p, "response", r)
		if err != nil {
			return err
		}
		if isReference(resp) {
			err = validateReference(p, resp)
		} else {
			err = validateResponse(p, resp)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func validateParameters(path string, v any) error {
	params, ok := asList(v)
	if !ok {
		return validationErrorf(path, "parameters must be a list")
	}
	for i, p := range params {
		pp := fmt.Sprintf("%s[%d]", path, i)
		obj, err := objectAt(pp, "parameter", p)
		if err != nil {
			return err
		}
		if isReference(obj) {
			err = validateReference(pp, obj)
		} else {
			err = validateParameter(pp, obj)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateParameterObject checks obj against the OpenAPI Parameter Object.
// The legacy "body" location is accepted and requires a schema.
func ValidateParameterObject(obj Object) error {
	return validateParameter("", obj)
}

func validateParameter(path string, obj Object) error {
	if err := checkKeys(path, "parameter", obj, parameterKeys); err != nil {
		return err
	}
	if stringValue(obj, "name") == "" {
		return validationErrorf(path, "parameter must have a name")
	}
	in, ok := obj["in"].(string)
	if !ok {
		return validationErrorf(path, "parameter must have an in field")
	}
	if !slices.Contains(parameterIn, in) {
		return validationErrorf(join(path, "in"), "invalid in value %q, must be one of %s", in, strings.Join(parameterIn, ", "))
	}
	schema, hasSchema := obj["schema"]
	if in == "body" {
		if !hasSchema {
			return validationErrorf(path, "body parameter must have a schema")
		}
		return validateSchemaOrReference(join(path, "schema"), schema)
	}
	if hasSchema {
		return validateSchemaOrReference(join(path, "schema"), schema)
	}
	if _, ok := obj["content"]; ok {
		return validateContent(join(path, "content"), obj["content"])
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return validationErrorf(path, "parameter must have a schema or a type")
	}
	if typ == "array" {
		items, ok := obj["items"]
		if !ok {
			return validationErrorf(path, "array parameter must have items")
		}
		return validateSchemaOrReference(join(path, "items"), items)
	}
	return nil
}

// ValidateResponseObject checks obj against the OpenAPI Response Object.
func ValidateResponseObject(obj Object) error {
	return validateResponse("", obj)
}

func validateResponse(path string, obj Object) error {
	if err := checkKeys(path, "response", obj, responseKeys); err != nil {
		return err
	}
	if _, ok := obj["description"].(string); !ok {
		return validationErrorf(path, "response must have a description")
	}
	if v, ok := obj["content"]; ok {
		return validateContent(join(path, "content"), v)
	}
	return nil
}

func validateRequestBodyOrReference(path string, obj Object) error {
	if isReference(obj) {
		return validateReference(path, obj)
	}
	if err := checkKeys(path, "request body", obj, requestBodyKeys); err != nil {
		return err
	}
	v, ok := obj["content"]
	if !ok {
		return validationErrorf(path, "request body must have content")
	}
	return validateContent(join(path, "content"), v)
}

func validateContent(path string, v any) error {
	content, err := objectAt(path, "content", v)
	if err != nil {
		return err
	}
	for mime, mt := range content {
		p := join(path, mime)
		media, err := objectAt(p, "media type", mt)
		if err != nil {
			return err
		}
		if err := checkKeys(p, "media type", media, mediaTypeKeys); err != nil {
			return err
		}
		if s, ok := media["schema"]; ok {
			if err := validateSchemaOrReference(join(p, "schema"), s); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateReferenceObject checks that obj holds exactly one string $ref.
func ValidateReferenceObject(obj Object) error {
	return validateReference("", obj)
}

func validateReference(path string, obj Object) error {
	v, ok := obj["$ref"]
	if !ok {
		return validationErrorf(path, "reference must have a $ref field")
	}
	if len(obj) != 1 {
		return validationErrorf(path, "reference must only have a $ref field")
	}
	if _, ok := v.(string); !ok {
		return validationErrorf(path, "$ref must be a string, got %T", v)
	}
	return nil
}

// ValidateSchemaObject checks obj against the OpenAPI Schema Object,
// recursing into properties, items and composition lists.
func ValidateSchemaObject(obj Object) error {
	return validateSchema("", obj)
}

// validateSchemaOrReference resolves the Schema | Reference union. Models
// are accepted as they are replaced by references on extraction.
func validateSchemaOrReference(path string, v any) error {
	if _, ok := v.(Model); ok {
		return nil
	}
	obj, err := objectAt(path, "schema", v)
	if err != nil {
		return err
	}
	if isReference(obj) {
		return validateReference(path, obj)
	}
	return validateSchema(path, obj)
}

func validateSchema(path string, obj Object) error { //nolint:revive // one branch per schema keyword
	if v, ok := obj["type"]; ok {
		typ, ok := v.(string)
		if !ok || !slices.Contains(schemaTypes, typ) {
			return validationErrorf(join(path, "type"), "invalid schema type %v", v)
		}
		if _, ok := obj["items"]; typ == "array" && !ok {
			return validationErrorf(path, "array schema must have items")
		}
	}
	if v, ok := obj["required"]; ok {
		req, ok := asList(v)
		if !ok {
			return validationErrorf(join(path, "required"), "required must be a list")
		}
		for _, r := range req {
			if _, ok := r.(string); !ok {
				return validationErrorf(join(path, "required"), "required entries must be strings, got %T", r)
			}
		}
	}
	if v, ok := obj["properties"]; ok {
		props, err := objectAt(join(path, "properties"), "properties", v)
		if err != nil {
			return err
		}
		for name, p := range props {
			if err := validateSchemaOrReference(join(join(path, "properties"), name), p); err != nil {
				return err
			}
		}
	}
	if v, ok := obj["items"]; ok {
		if err := validateSchemaOrReference(join(path, "items"), v); err != nil {
			return err
		}
	}
	if v, ok := obj["additionalProperties"]; ok {
		if _, isBool := v.(bool); !isBool {
			if err := validateSchemaOrReference(join(path, "additionalProperties"), v); err != nil {
				return err
			}
		}
	}
	if v, ok := obj["not"]; ok {
		if err := validateSchemaOrReference(join(path, "not"), v); err != nil {
			return err
		}
	}
	for _, key := range schemaListKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		list, ok := asList(v)
		if !ok {
			return validationErrorf(join(path, key), "%s must be a list", key)
		}
		for i, s := range list {
			if err := validateSchemaOrReference(fmt.Sprintf("%s[%d]", join(path, key), i), s); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateComponentsObject checks obj against the OpenAPI Components Object.
// Entries of schemas, responses and parameters are validated in depth.
func ValidateComponentsObject(obj Object) error {
	return validateComponents("components", obj)
}

func validateComponents(path string, obj Object) error {
	if err := checkKeys(path, "components", obj, componentKeys); err != nil {
		return err
	}
	if v, ok := obj["schemas"]; ok {
		schemas, err := objectAt(join(path, "schemas"), "schemas", v)
		if err != nil {
			return err
		}
		for name, s := range schemas {
			if err := validateSchemaOrReference(join(join(path, "schemas"), name), s); err != nil {
				return err
			}
		}
	}
	if v, ok := obj["responses"]; ok {
		responses, err := objectAt(join(path, "responses"), "responses", v)
		if err != nil {
			return err
		}
		for name, r := range responses {
			p := join(join(path, "responses"), name)
			resp, err := objectAt(p, "response", r)
			if err != nil {
				return err
			}
			if isReference(resp) {
				err = validateReference(p, resp)
			} else {
				err = validateResponse(p, resp)
			}
			if err != nil {
				return err
			}
		}
	}
	if v, ok := obj["parameters"]; ok {
		params, err := objectAt(join(path, "parameters"), "parameters", v)
		if err != nil {
			return err
		}
		for name, p := range params {
			pp := join(join(path, "parameters"), name)
			param, err := objectAt(pp, "parameter", p)
			if err != nil {
				return err
			}
			if isReference(param) {
				err = validateReference(pp, param)
			} else {
				err = validateParameter(pp, param)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateDocument checks the paths and components of a whole document.
func ValidateDocument(doc Object) error {
	if v, ok := doc["paths"]; ok {
		paths, err := objectAt("paths", "paths", v)
		if err != nil {
			return err
		}
		for p, item := range paths {
			if !strings.HasPrefix(p, "/") {
				return validationErrorf("paths", "paths must start with a /, got %q", p)
			}
			obj, err := objectAt(join("paths", p), "path item", item)
			if err != nil {
				return err
			}
			if err := validatePathItem(join("paths", p), obj); err != nil {
				return err
			}
		}
	}
	if v, ok := doc["components"]; ok {
		comps, err := objectAt("components", "components", v)
		if err != nil {
			return err
		}
		return validateComponents("components", comps)
	}
	return nil
}
