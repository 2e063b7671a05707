package docs

import "net/http"

// Member is a person with access to the workspace.
type Member struct {
	Name string `json:"name"`
}

type usersResource struct{}

// Get lists the members.
//
// Results are sorted by name.
// :param limit: page size
func (usersResource) Get(http.ResponseWriter, *http.Request) {}

// Post adds a member.
func (usersResource) Post(http.ResponseWriter, *http.Request) {}
