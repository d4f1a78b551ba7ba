package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerRegistrado(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var spec struct {
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))
	assert.Equal(t, "Vendofy API", spec.Info["title"])
	assert.Contains(t, spec.Paths, "/api/orders")
	assert.Contains(t, spec.Paths["/api/orders/{id}/pdf"], "get")
}
