// Package apidoc serves the OpenAPI description of the public routes and a
// Swagger UI page that reads it.
package apidoc

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openapiYAML []byte

const swaggerUIVersion = "5.17.14"

var uiTmpl = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@{{ .Version }}/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@{{ .Version }}/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: {{ .SpecURL }}, dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`))

type Doc struct {
	// Spec is the decoded OpenAPI document, ready to be JSON encoded.
	Spec  map[string]any
	Title string
	UI    []byte
}

// Load decodes the embedded OpenAPI document and renders the UI page pointing
// at specURL.
func Load(specURL string) (*Doc, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(openapiYAML, &spec); err != nil {
		return nil, fmt.Errorf("decode openapi document: %w", err)
	}
	title := "API"
	if info, ok := spec["info"].(map[string]any); ok {
		if t, ok := info["title"].(string); ok {
			title = t
		}
	}

	var buf bytes.Buffer
	err := uiTmpl.Execute(&buf, struct {
		Title, Version, SpecURL string
	}{title, swaggerUIVersion, specURL})
	if err != nil {
		return nil, fmt.Errorf("render swagger ui: %w", err)
	}
	return &Doc{Spec: spec, Title: title, UI: buf.Bytes()}, nil
}
