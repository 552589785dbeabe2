package handlers

import (
	"net/http"

	"github.com/dimitrije/projectboard/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

type DocsHandler struct {
	docs *services.APIDocService
}

func NewDocsHandler(docs *services.APIDocService) *DocsHandler {
	return &DocsHandler{docs: docs}
}

// OpenAPI serves the API description as JSON.
func (h *DocsHandler) OpenAPI(c *drift.Context) {
	_ = c.JSON(http.StatusOK, h.docs.Document())
}
