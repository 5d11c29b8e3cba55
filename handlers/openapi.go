// ABOUTME: Serves the advisor's OpenAPI document
// ABOUTME: The YAML is embedded at build time and cached by clients for an hour

package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var openapiSpec []byte

// OpenAPISpec handles GET /openapi.yaml.
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(openapiSpec)
}
