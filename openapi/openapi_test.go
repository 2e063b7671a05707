package openapi_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobd/apidoc/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsYAML = `openapi: 3.0.0
info:
  title: Pets
  version: "1.0"
paths:
  /pets/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: A pet
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

func TestDocBase(t *testing.T) {
	doc := openapi.DocBase("Title", "", "2.0")
	assert.Equal(t, map[string]any{"title": "Title", "version": "2.0"}, doc["info"])
	assert.Equal(t, openapi.Version, doc["openapi"])
	for _, k := range []string{"servers", "paths", "components", "security", "tags"} {
		assert.Contains(t, doc, k)
	}

	doc = openapi.DocBase("Title", "About", "2.0")
	assert.Equal(t, "About", doc["info"].(map[string]any)["description"])

	_, err := openapi.Decode(context.Background(), openapi.DocBase("Title", "About", "2.0"))
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	doc, err := openapi.Load(context.Background(), []byte(petsYAML))
	require.NoError(t, err)
	assert.Equal(t, "Pets", doc.Info.Title)

	op := doc.Paths.Value("/pets/{id}").Get
	require.NotNil(t, op)
	schema := op.Responses.Value("200").Value.Content.Get("application/json").Schema
	require.NotNil(t, schema.Value)
	assert.Contains(t, schema.Value.Properties, "name")
}

func TestLoad_Invalid(t *testing.T) {
	_, err := openapi.Load(context.Background(), []byte(`{"openapi":"3.0.0","info":{"title":"x"},"paths":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid document")

	_, err = openapi.Load(context.Background(), []byte(`{`))
	assert.Error(t, err)
}

func TestUnmarshal(t *testing.T) {
	tree, err := openapi.Unmarshal([]byte(`{"openapi":"3.0.0","x-count":3}`), false)
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), tree["x-count"])

	tree, err = openapi.Unmarshal([]byte(petsYAML), true)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", tree["openapi"])
	assert.Contains(t, tree["paths"], "/pets/{id}")

	_, err = openapi.Unmarshal([]byte("a: [1"), true)
	assert.Error(t, err)
}

func TestReadTreeAndFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pets.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(petsYAML), 0o600))

	tree, err := openapi.ReadTree(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", tree["openapi"])

	doc, err := openapi.ReadFile(context.Background(), yamlPath)
	require.NoError(t, err)

	b, err := openapi.MarshalJSON(doc)
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "pets.json")
	require.NoError(t, os.WriteFile(jsonPath, b, 0o600))

	again, err := openapi.ReadFile(context.Background(), jsonPath)
	require.NoError(t, err)
	assert.Equal(t, doc.Info.Title, again.Info.Title)

	_, err = openapi.ReadTree(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestMarshalYAML(t *testing.T) {
	doc, err := openapi.Load(context.Background(), []byte(petsYAML))
	require.NoError(t, err)

	b, err := openapi.MarshalYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), "title: Pets")

	tree, err := openapi.Unmarshal(b, true)
	require.NoError(t, err)
	assert.Contains(t, tree["components"], "schemas")
}
