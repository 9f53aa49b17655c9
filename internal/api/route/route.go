package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/quillpad/internal/app"
)

func SetupRoutes(r *gin.Engine, appCtx *app.App) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	publicRouter := r.Group("")

	timeout := appCtx.Config.Server.RequestTimeout

	NewSessionRouter(timeout, publicRouter, appCtx.Coordinator)
	NewPrefsRouter(timeout, publicRouter, appCtx.Prefs)
}
