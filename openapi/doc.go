// Package openapi is the typed side of apidoc. It turns the map form of a
// document into kin-openapi's [openapi3.T], validates it and reads and
// writes documents as JSON or YAML:
//
//	doc, err := openapi.Decode(ctx, tree)
//	if err != nil {
//	    return err
//	}
//	out, err := openapi.MarshalYAML(doc)
package openapi
