package apidoc_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	v "github.com/Gobd/apidoc"
	"github.com/go-chi/chi/v5"
)

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func (u *User) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&u.Name, v.Required, v.Length(1, 100)),
		v.Field(&u.Email, v.Required, v.Format("email")),
		v.Field(&u.Age, v.Min(0), v.Max(150)),
	}
}

func ExampleValidate() {
	user := &User{Name: "Alice", Email: "alice@example.com", Age: 30}
	if err := v.Validate(user); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("valid")
	// Output: valid
}

func ExampleValidate_error() {
	err := v.Validate(&User{Age: 200})
	fmt.Println(err)
	// Output: age: must be no greater than 150; email: cannot be blank; name: cannot be blank.
}

func ExampleDecodeAndValidate() {
	var user User
	err := v.DecodeAndValidate(strings.NewReader(`{"name":"Bob","email":"bob@example.com"}`), &user)
	fmt.Println(user.Name, err)
	// Output: Bob <nil>
}

func ExampleSchema_New() {
	pet := &v.Schema{
		Name: "Pet",
		Properties: v.Object{
			"id":   v.Object{"type": "integer"},
			"name": v.Object{"type": "string"},
		},
		Required: []string{"name"},
	}

	_, err := pet.New(v.Object{"id": "1", "name": "Rex"})
	fmt.Println(err)
	// Output: model "Pet": id: must be an int, but was string.
}

func ExampleNew() {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/users/{id}", v.Doc(v.Object{
		"summary": "Get a user",
		"responses": v.Object{
			"200": v.Object{
				"description": "The user",
				"content":     v.Object{"application/json": v.Object{"schema": v.Struct(User{})}},
			},
		},
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(User{Name: chi.URLParam(r, "id")})
	})))

	api, err := v.New(v.Chi(r), v.WithTitle("Users"), v.WithVersion("1.0"))
	if err != nil {
		fmt.Println(err)
		return
	}
	doc, err := api.Spec(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	get := doc.Paths.Value("/users/{id}").Get
	fmt.Println(doc.Info.Title, api.SpecURL())
	fmt.Println(get.Summary, get.Parameters[0].Value.Name)
	fmt.Println(doc.Components.Schemas["User"].Value.Required)
	// Output:
	// Users /api/swagger.json
	// Get a user id
	// [name email]
}
