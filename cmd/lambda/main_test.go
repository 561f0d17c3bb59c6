package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const model = `{
  "metadata": {"name": "Shop", "version": "1", "author": "a"},
  "systems": [{"id": "s1", "type": "system", "name": "Shop", "position": {"x": 0, "y": 0}}],
  "people": [{"id": "p1", "type": "person", "name": "Buyer", "position": {"x": 0, "y": 0}}],
  "relationships": [{"id": "r1", "from": "p1", "to": "s1", "description": "Buys"}]
}`

func invoke(t *testing.T, ev LambdaEvent) (APIGatewayResponse, LambdaResponse) {
	t.Helper()
	resp, err := handler(context.Background(), ev)
	require.NoError(t, err)
	var body LambdaResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return resp, body
}

func TestHandlerConvertsToPlantUML(t *testing.T) {
	resp, body := invoke(t, LambdaEvent{Body: model, Format: "plantuml"})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.True(t, body.Success)

	enc, ok := body.Files["shop-c4.puml"]
	require.True(t, ok, body.Files)
	puml, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	assert.Contains(t, string(puml), `Rel(p1, s1, "Buys")`)
	assert.Contains(t, string(puml), "@enduml")
}

func TestHandlerAllFormatsFromBase64(t *testing.T) {
	ev := LambdaEvent{Body: base64.StdEncoding.EncodeToString([]byte(model)), IsBase64: true, Format: "all"}
	resp, body := invoke(t, ev)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body.Files, 7)
}

func TestHandlerErrors(t *testing.T) {
	resp, body := invoke(t, LambdaEvent{Body: "%%%", IsBase64: true})
	assert.Equal(t, 400, resp.StatusCode)
	assert.False(t, body.Success)

	resp, _ = invoke(t, LambdaEvent{Body: "{nope"})
	assert.Equal(t, 400, resp.StatusCode)

	resp, body = invoke(t, LambdaEvent{Body: model, Format: "svg"})
	assert.Equal(t, 422, resp.StatusCode)
	assert.NotEmpty(t, body.Errors)

	resp, _ = invoke(t, LambdaEvent{Body: model, InputFormat: "yaml"})
	assert.Equal(t, 422, resp.StatusCode)
}

func TestHandlerStrict(t *testing.T) {
	dangling := `{"metadata":{"name":"x"},"relationships":[{"id":"r","from":"a","to":"b","description":""}]}`
	resp, body := invoke(t, LambdaEvent{Body: dangling, Strict: true})
	assert.Equal(t, 422, resp.StatusCode)
	assert.NotEmpty(t, body.Warnings)

	resp, body = invoke(t, LambdaEvent{Body: dangling})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body.Files, "x-c4-model.json")
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"json"}, formats(""))
	assert.Equal(t, []string{"plantuml", "mermaid"}, formats(" plantuml, mermaid ,"))
	assert.Len(t, formats("all"), 7)
}
