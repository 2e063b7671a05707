// Package reqparse extracts typed arguments from HTTP requests.
//
// A [Parser] is a list of [Argument] declarations. Each argument names its
// location (query string, JSON body, form, headers, cookies or path), its
// [Type] and whether it is required:
//
//	p := reqparse.New().
//	    AddArgument(reqparse.Argument{Name: "page", Type: reqparse.Integer, Default: 1}).
//	    AddArgument(reqparse.Argument{Name: "tag", Action: reqparse.Append})
//
//	args, err := p.Parse(r)
//
// Errors are returned as a [validation.Errors] keyed by argument name.
package reqparse
