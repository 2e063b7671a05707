package apidoc

import (
	"encoding/json"
	"net/http"
)

// Abort writes a JSON error response. The body is the fields of schema,
// typically a model instance from [Schema.New], overlaid with extra. A
// "message" with the status text is added when neither sets one.
func Abort(w http.ResponseWriter, code int, schema, extra Object) {
	body := Object{}
	for k, v := range schema {
		body[k] = v
	}
	for k, v := range extra {
		body[k] = v
	}
	if _, ok := body["message"]; !ok {
		body["message"] = http.StatusText(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
