// Package docs serves the OpenAPI description used by the Swagger UI.
package docs

import (
	_ "embed"
	"log/slog"
	"net/http"
)

//go:embed swagger.json
var swaggerJSON []byte

// Handler serves the raw OpenAPI document.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(swaggerJSON); err != nil {
		slog.ErrorContext(r.Context(), "failed to write OpenAPI document", slog.Any("error", err))
	}
}
