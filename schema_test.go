package apidoc_test

import (
	"errors"
	"testing"

	v "github.com/Gobd/apidoc"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userModel = &v.Schema{
	Name: "UserModel",
	Type: "object",
	Properties: v.Object{
		"id":   v.Object{"type": "integer", "format": "int64"},
		"name": v.Object{"type": "string"},
	},
	Required: []string{"name"},
}

var schemaTestModel = &v.Schema{
	Name:        "SchemaTestModel",
	Description: "Test schema model.",
	Properties: v.Object{
		"id":   v.Object{"type": "integer"},
		"name": v.Object{"type": "string"},
	},
	Required: []string{"id"},
}

func modelFields(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	var merr *v.ModelError
	require.True(t, errors.As(err, &merr), "got %T: %v", err, err)
	return merr.Fields()
}

func TestSchema_New_Valid(t *testing.T) {
	got, err := schemaTestModel.New(v.Object{"id": 1, "name": "somebody"})
	require.NoError(t, err)
	assert.Equal(t, v.Object{"id": 1, "name": "somebody"}, got)
}

func TestSchema_New_MissingRequired(t *testing.T) {
	_, err := schemaTestModel.New(v.Object{"name": "somebody"})
	fields := modelFields(t, err)
	assert.Contains(t, fields, "id")
}

func TestSchema_New_InvalidType(t *testing.T) {
	_, err := schemaTestModel.New(v.Object{"id": "1"})
	fields := modelFields(t, err)
	require.Contains(t, fields, "id")
	assert.Contains(t, fields["id"].Error(), "must be an int")
}

func TestSchema_New_UnknownAttribute(t *testing.T) {
	_, err := schemaTestModel.New(v.Object{"id": 1, "mail": "a@b.c"})
	fields := modelFields(t, err)
	require.Contains(t, fields, "mail")
	assert.Contains(t, fields["mail"].Error(), `does not have an attribute "mail"`)
}

func TestSchema_New_Constraints(t *testing.T) {
	address := &v.Schema{
		Name: "Address",
		Properties: v.Object{
			"city": v.Object{"type": "string"},
		},
		Required: []string{"city"},
	}
	contact := &v.Schema{
		Name: "Contact",
		Properties: v.Object{
			"email":   v.Object{"type": "string", "format": "email"},
			"kind":    v.Object{"type": "string", "enum": []string{"home", "work"}},
			"code":    v.Object{"type": "string", "minLength": 2, "maxLength": 3},
			"age":     v.Object{"type": "integer", "minimum": 0, "maximum": 150},
			"score":   v.Object{"type": "number"},
			"active":  v.Object{"type": "boolean"},
			"tags":    v.Object{"type": "array", "items": v.Object{"type": "string"}},
			"note":    v.Object{"type": "string", "nullable": true},
			"address": address,
		},
	}

	_, err := contact.New(v.Object{
		"email":   "someone@example.com",
		"kind":    "home",
		"code":    "ab",
		"age":     30,
		"score":   1.5,
		"active":  true,
		"tags":    []string{"a"},
		"note":    nil,
		"address": v.Object{"city": "Oslo"},
	})
	require.NoError(t, err)

	_, err = contact.New(v.Object{
		"email":   "not an email",
		"kind":    "school",
		"code":    "abcd",
		"age":     200,
		"score":   "high",
		"active":  1,
		"tags":    "a",
		"address": v.Object{},
	})
	fields := modelFields(t, err)
	for _, k := range []string{"email", "kind", "code", "age", "score", "active", "tags", "address"} {
		assert.Contains(t, fields, k)
	}
	assert.NotContains(t, fields, "note")

	_, err = contact.New(v.Object{"kind": "", "code": "", "age": -1})
	fields = modelFields(t, err)
	for _, k := range []string{"kind", "code", "age"} {
		assert.Contains(t, fields, k)
	}
}

func TestSchema_New_ZeroValues(t *testing.T) {
	counter := &v.Schema{
		Name: "Counter",
		Properties: v.Object{
			"n":    v.Object{"type": "integer", "minimum": 1},
			"max":  v.Object{"type": "integer", "maximum": -1},
			"code": v.Object{"type": "string", "minLength": 2},
			"kind": v.Object{"type": "string", "enum": []string{"home", "work"}},
			"flag": v.Object{"type": "integer", "enum": []any{1, 2}},
		},
	}

	_, err := counter.New(v.Object{"n": 0, "max": 0, "code": "", "kind": "", "flag": 0})
	fields := modelFields(t, err)
	assert.Equal(t, "must be no less than 1", fields["n"].Error())
	assert.Equal(t, "must be no greater than -1", fields["max"].Error())
	assert.Equal(t, "the length must be no less than 2", fields["code"].Error())
	assert.Equal(t, "must be one of [home work]", fields["kind"].Error())
	assert.Contains(t, fields, "flag")

	_, err = counter.New(v.Object{"n": 1, "max": -1, "code": "ab", "kind": "work", "flag": 2.0})
	assert.NoError(t, err)
}

func TestSchema_New_FloatForInteger(t *testing.T) {
	_, err := schemaTestModel.New(v.Object{"id": 2.0})
	assert.NoError(t, err)

	_, err = schemaTestModel.New(v.Object{"id": 2.5})
	assert.Error(t, err)
}

func TestSchema_MustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { schemaTestModel.MustNew(v.Object{}) })
	assert.NotPanics(t, func() { schemaTestModel.MustNew(v.Object{"id": 1}) })
}

func TestSchema_Helpers(t *testing.T) {
	assert.Equal(t, v.Object{"$ref": "#/components/schemas/UserModel"}, userModel.Reference())
	assert.Equal(t, v.Object{"type": "array", "items": userModel}, userModel.Array())
	assert.True(t, userModel.IsRequired())
	assert.False(t, (&v.Schema{Name: "Empty"}).IsRequired())

	def, err := schemaTestModel.Definition()
	require.NoError(t, err)
	assert.Equal(t, "object", def["type"])
	assert.Equal(t, "Test schema model.", def["description"])
	assert.Equal(t, []string{"id"}, def["required"])
	assert.Contains(t, def["properties"], "name")

	_, err = (&v.Schema{}).Definition()
	assert.Error(t, err)
}

// --- Struct models ---

type account struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Age    int      `json:"age"`
	Status string   `json:"status"`
	Tags   []string `json:"tags"`
	Secret string   `json:"secret" docs:"skip"`
}

func (a *account) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&a.Name, v.Required, v.Length(1, 100), v.Describe("Display name.")),
		v.Field(&a.Email, v.Required, v.Format("email")),
		v.Field(&a.Age, v.Min(0), v.Max(150)),
		v.Field(&a.Status, v.In("active", "inactive"), v.Default("active")),
		v.Field(&a.Tags, v.Unique, v.Each(v.Length(1, 10))),
	}
}

type accountRole string

func (accountRole) ValueRules() []v.Rule {
	return []v.Rule{v.In(accountRole("admin"), accountRole("member")), v.Describe("Role of the member.")}
}

type membership struct {
	account
	Role accountRole `json:"role"`
}

func (m *membership) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&m.account),
		v.Field(&m.Role, v.Required),
	}
}

func TestNewSchemaRef_Rules(t *testing.T) {
	ref, err := v.NewSchemaRef(account{})
	require.NoError(t, err)
	schema := ref.Value

	assert.ElementsMatch(t, []string{"name", "email"}, schema.Required)
	assert.NotContains(t, schema.Properties, "secret")

	name := schema.Properties["name"].Value
	assert.Equal(t, uint64(1), name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(100), *name.MaxLength)
	assert.Equal(t, "Display name.", name.Description)

	assert.Equal(t, "email", schema.Properties["email"].Value.Format)

	age := schema.Properties["age"].Value
	require.NotNil(t, age.Min)
	require.NotNil(t, age.Max)
	assert.Equal(t, float64(0), *age.Min)
	assert.Equal(t, float64(150), *age.Max)

	status := schema.Properties["status"].Value
	assert.Equal(t, []any{"active", "inactive"}, status.Enum)
	assert.Equal(t, "active", status.Default)

	tags := schema.Properties["tags"].Value
	assert.True(t, tags.UniqueItems)
	require.NotNil(t, tags.Items)
	assert.Equal(t, uint64(1), tags.Items.Value.MinLength)
}

func TestNewSchemaRef_EmbeddedAndValueRuler(t *testing.T) {
	ref, err := v.NewSchemaRef(membership{})
	require.NoError(t, err)
	schema := ref.Value

	assert.ElementsMatch(t, []string{"name", "email", "role"}, schema.Required)
	assert.Contains(t, schema.Properties, "name")
	assert.NotContains(t, schema.Properties, "secret")

	role := schema.Properties["role"].Value
	assert.Equal(t, []any{accountRole("admin"), accountRole("member")}, role.Enum)
	assert.Equal(t, "Role of the member.", role.Description)
}

func TestStruct_Definition(t *testing.T) {
	m := v.Struct(account{})
	assert.Equal(t, "account", m.ModelName())
	assert.Equal(t, v.Object{"$ref": "#/components/schemas/account"}, m.Reference())

	def, err := m.Definition()
	require.NoError(t, err)
	assert.Equal(t, "object", def["type"])
	assert.ElementsMatch(t, []any{"name", "email"}, def["required"])
	props, ok := def["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "status")

	named := v.NamedStruct("Account", &account{})
	assert.Equal(t, "Account", named.ModelName())
}

func TestStruct_Validate(t *testing.T) {
	m := v.NamedStruct("Account", account{})
	err := m.Validate(&account{Name: "Ann", Email: "ann@example.com", Status: "active"})
	assert.NoError(t, err)

	err = m.Validate(&account{Name: "Ann", Email: "nope", Status: "gone"})
	fields := modelFields(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "status")
}
