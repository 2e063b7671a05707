package apidoc

import (
	"errors"
	"fmt"

	"github.com/Gobd/apidoc/reqparse"
)

// ReqParser documents an operation from the arguments of a request parser.
// Set it under the "reqparser" key of an operation object instead of
// "parameters":
//
//	apidoc.Object{
//	    "reqparser": apidoc.ReqParser{Name: "EntityAddParser", Parser: parser},
//	    "responses": ...,
//	}
//
// Query, header, path and cookie arguments become parameters. JSON and form
// arguments become a model called Name referenced from the request body.
type ReqParser struct {
	Name   string
	Parser *reqparse.Parser
}

var errParametersAndParser = errors.New("parameters and reqparser can't be in same spec")

// DataType returns the parser type documented by the schema of param. Array
// schemas map to their item type. It returns nil when param has no schema.
func DataType(param Object) reqparse.Type {
	schema, ok := asObject(param["schema"])
	if !ok {
		return nil
	}
	if stringValue(schema, "type") == "array" {
		if items, ok := asObject(schema["items"]); ok {
			schema = items
		}
	}
	switch stringValue(schema, "type") {
	case "integer":
		return reqparse.Integer
	case "number":
		return reqparse.Float
	case "boolean":
		return reqparse.Boolean
	case "string":
		switch stringValue(schema, "format") {
		case "date":
			return reqparse.Date
		case "date-time":
			return reqparse.DateTime
		}
		return reqparse.String
	}
	return nil
}

// ParserArg converts a parameter object into a query argument.
func ParserArg(param Object) reqparse.Argument {
	name := stringValue(param, "name")
	arg := reqparse.Argument{
		Name:     name,
		Dest:     name,
		Type:     DataType(param),
		Location: reqparse.Args,
		Help:     stringValue(param, "description"),
		Action:   reqparse.Store,
	}
	arg.Required, _ = param["required"].(bool)
	if schema, ok := asObject(param["schema"]); ok {
		arg.Default = schema["default"]
		if stringValue(schema, "type") == "array" {
			arg.Action = reqparse.Append
		}
	}
	return arg
}

// ParserArgs converts the query parameters of params into arguments. Other
// locations are ignored.
func ParserArgs(params []Object) []reqparse.Argument {
	var args []reqparse.Argument
	for _, p := range params {
		if stringValue(p, "in") != "query" {
			continue
		}
		args = append(args, ParserArg(p))
	}
	return args
}

// NewParser builds a request parser from the query parameters of params.
func NewParser(params []Object) *reqparse.Parser {
	p := reqparse.New()
	for _, arg := range ParserArgs(params) {
		p.AddArgument(arg)
	}
	return p
}

func parameterLocation(loc reqparse.Location) string {
	switch loc {
	case reqparse.Args, "":
		return "query"
	case reqparse.Headers:
		return "header"
	case reqparse.Path:
		return "path"
	case reqparse.Cookies:
		return "cookie"
	}
	return string(loc)
}

// argSchema documents a parser argument as a schema object.
func argSchema(arg *reqparse.Argument) Object {
	typ := arg.TypeOrDefault()
	item := Object{"type": typ.OpenAPIType()}
	if f := typ.Format(); f != "" {
		item["format"] = f
	}
	if len(arg.Choices) > 0 {
		item["enum"] = append([]any(nil), arg.Choices...)
	}

	schema := item
	if arg.Action == reqparse.Append {
		schema = Object{"type": "array", "items": item}
	}
	if arg.Default != nil {
		schema["default"] = arg.Default
	}
	if arg.Help != "" {
		schema["description"] = arg.Help
	}
	return schema
}

func toReqParser(v any) (ReqParser, error) {
	switch rp := v.(type) {
	case ReqParser:
		return rp, nil
	case *ReqParser:
		if rp != nil {
			return *rp, nil
		}
	}
	return ReqParser{}, fmt.Errorf("reqparser must be an apidoc.ReqParser, got %T", v)
}

// expandReqParser replaces the reqparser key of op with parameters and a
// request body. op is modified in place.
func expandReqParser(op Object) error {
	raw, ok := op["reqparser"]
	if !ok {
		return nil
	}
	if _, ok := op["parameters"]; ok {
		return errParametersAndParser
	}
	rp, err := toReqParser(raw)
	if err != nil {
		return err
	}
	if rp.Parser == nil {
		return errors.New("reqparser has no parser")
	}
	delete(op, "reqparser")

	body := &Schema{Name: rp.Name, Properties: Object{}}
	mediaType := "application/json"
	var params []any
	for _, arg := range rp.Parser.Args() {
		switch arg.Location {
		case reqparse.JSON, reqparse.Form:
			if arg.Location == reqparse.Form {
				mediaType = "application/x-www-form-urlencoded"
			}
			body.Properties[arg.Name] = argSchema(arg)
			if arg.Required {
				body.Required = append(body.Required, arg.Name)
			}
		default:
			schema := argSchema(arg)
			delete(schema, "description")
			param := Object{
				"name":     arg.Name,
				"in":       parameterLocation(arg.Location),
				"required": arg.Required,
				"schema":   schema,
			}
			if arg.Help != "" {
				param["description"] = arg.Help
			}
			params = append(params, param)
		}
	}

	if len(params) > 0 {
		op["parameters"] = params
	}
	if len(body.Properties) > 0 {
		if body.Name == "" {
			return errors.New("reqparser with body arguments needs a name")
		}
		op["requestBody"] = Object{
			"description": "Request body",
			"required":    body.IsRequired(),
			"content": Object{
				mediaType: Object{"schema": body},
			},
		}
	}
	return nil
}
