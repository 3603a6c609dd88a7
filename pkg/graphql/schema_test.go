package graphql

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSchema(t *testing.T) graphql.Schema {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"echo": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{"say": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Args["say"], nil
				},
			},
		},
	})
	s, err := NewSchema(query)
	require.NoError(t, err)
	return s
}

func TestHandlerExecutesQueryWithVariables(t *testing.T) {
	body := `{"query":"query($s: String){ echo(say: $s) }","variables":{"s":"hi"}}`
	rec := httptest.NewRecorder()
	Handler(echoSchema(t))(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "hi", got.Data["echo"])
}

func TestHandlerRejectsMissingQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(echoSchema(t))(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerReportsQueryErrorsInBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(echoSchema(t))(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}
