package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlrunner/internal/page"
)

// Register routes every method on every path to Handle.
func Register(r *gin.Engine) {
	r.Any("/*path", Handle)
	r.NoRoute(Handle)
}

// Handle branches on the method alone: POST runs a query, anything else gets
// the page.
func Handle(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		QueryHandler(c)
		return
	}
	PageHandler(c)
}

func PageHandler(c *gin.Context) {
	body, err := page.Render(nil, page.DefaultQuery)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, page.ContentType, body)
}
