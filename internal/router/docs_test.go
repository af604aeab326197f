package router

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	_ "github.com/lshigami/Learnhub/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type swaggerSchema map[string]interface{}

type swaggerParam struct {
	In     string        `json:"in"`
	Schema swaggerSchema `json:"schema"`
}

type swaggerResponse struct {
	Schema swaggerSchema `json:"schema"`
}

type swaggerOperation struct {
	Parameters []swaggerParam             `json:"parameters"`
	Responses  map[string]swaggerResponse `json:"responses"`
}

type swaggerDoc struct {
	Paths       map[string]map[string]swaggerOperation `json:"paths"`
	Definitions map[string]interface{}                 `json:"definitions"`
}

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocCoversEveryRoute(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	s := newTestServer(t)
	for _, route := range s.engine.Routes() {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}
		path := pathParam.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "undocumented path %s", path) {
			continue
		}
		op, ok := ops[strings.ToLower(route.Method)]
		if !assert.True(t, ok, "undocumented %s %s", route.Method, path) {
			continue
		}
		for _, p := range op.Parameters {
			if p.In == "body" {
				assert.Contains(t, p.Schema, "$ref", "%s %s body", route.Method, path)
			}
		}
		for code, resp := range op.Responses {
			assert.NotEmpty(t, resp.Schema, "%s %s response %s", route.Method, path, code)
		}
	}

	for _, name := range []string{"dto.AttemptSubmitDTO", "dto.LessonProgressUpdateDTO", "dto.ReviewUpsertDTO", "dto.ErrorResponse"} {
		assert.Contains(t, doc.Definitions, name)
	}
	assert.Contains(t, doc.Paths, "/healthz")
}
