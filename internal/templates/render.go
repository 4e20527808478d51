package templates

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RenderTempl renders component into a buffer first so a failed render
// still produces a clean 500 instead of a truncated page.
func RenderTempl(c *gin.Context, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(c.Request.Context(), &buf); err != nil {
		zap.S().Errorw("failed to render page", "path", c.Request.URL.Path, "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		_ = c.Error(err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
