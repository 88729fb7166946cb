package handlers

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const swaggerPage = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>%s</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body style="margin:0">
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: %q, dom_id: "#swagger-ui", deepLinking: true });
    </script>
  </body>
</html>`

// DocsHandler serves Swagger UI and the embedded OpenAPI document.
type DocsHandler struct {
	page    []byte
	docETag string
}

func NewDocsHandler(title, documentURL string) *DocsHandler {
	return &DocsHandler{
		page:    []byte(fmt.Sprintf(swaggerPage, title, documentURL)),
		docETag: buildETag(openAPIDocument),
	}
}

func (h *DocsHandler) UI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

func (h *DocsHandler) Document(ctx *gin.Context) {
	ctx.Header("ETag", h.docETag)
	ctx.Header("Cache-Control", "public, max-age=300")

	if etagMatches(ctx.GetHeader("If-None-Match"), h.docETag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(http.StatusOK, "application/yaml; charset=utf-8", openAPIDocument)
}
