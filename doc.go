// Package apidoc builds an OpenAPI 3 document from the routes of a chi or
// gorilla/mux router and serves it.
//
// Wrap handlers with [Doc] to attach an operation object. Models used in
// the operation are moved to components.schemas:
//
//	var User = &apidoc.Schema{
//	    Name:       "User",
//	    Properties: apidoc.Object{"name": apidoc.Object{"type": "string"}},
//	    Required:   []string{"name"},
//	}
//
//	r := chi.NewRouter()
//	r.Method(http.MethodGet, "/users/{id}", apidoc.Doc(apidoc.Object{
//	    "summary": "Get a user",
//	    "responses": apidoc.Object{
//	        "200": apidoc.Object{
//	            "description": "The user",
//	            "content": apidoc.Object{"application/json": apidoc.Object{"schema": User}},
//	        },
//	    },
//	}, http.HandlerFunc(getUser)))
//
//	api, err := apidoc.New(apidoc.Chi(r), apidoc.WithTitle("Users"), apidoc.WithVersion("1.0"))
//
// The document is served at /api/swagger.json, .yaml and .html.
//
// Go structs become models through [Struct]. Their schema is generated from
// the struct fields and the rules declared by [Ruler], which [Validate] also
// enforces:
//
//	func (o *Order) Rules() []*apidoc.FieldRules {
//	    return []*apidoc.FieldRules{
//	        apidoc.Field(&o.ID, apidoc.Required),
//	        apidoc.Field(&o.Amount, apidoc.Min(0.01)),
//	    }
//	}
//
// Sub-packages:
//   - reqparse – request argument parsing
//   - openapi – typed documents, validation and JSON/YAML encoding
package apidoc
