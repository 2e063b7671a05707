package apidoc

import "regexp"

var (
	// <name>, <converter:name>, <converter(args):name>
	converterPlaceholder = regexp.MustCompile(`<(?:[^<>:]+:)?([^<>:]+)>`)
	// {name:regexp} as used by chi and gorilla/mux. The pattern may itself
	// contain braces, e.g. {id:[0-9]{3}}.
	regexpPlaceholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*):(?:[^{}]|\{[^{}]*\})*\}`)
)

// ExtractPath converts a router pattern into an OpenAPI path template:
//
//	ExtractPath("/<string(length=2):lang>/<int:id>") == "/{lang}/{id}"
//	ExtractPath("/users/{id:[0-9]+}")                == "/users/{id}"
func ExtractPath(route string) string {
	route = converterPlaceholder.ReplaceAllString(route, "{$1}")
	return regexpPlaceholder.ReplaceAllString(route, "{$1}")
}
