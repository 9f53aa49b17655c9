package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/quillpad/internal/api/controller"
	"github.com/bassista/quillpad/internal/api/middleware"
	"github.com/bassista/quillpad/internal/prefs"
)

func NewPrefsRouter(timeout time.Duration, group *gin.RouterGroup, store prefs.Store) {
	group.Use(middleware.RequestTimeout(timeout))

	pc := controller.NewPrefsController(store)

	group.GET("preferences", pc.GetPreferences)
	group.PUT("preferences", pc.UpdatePreferences)
}
