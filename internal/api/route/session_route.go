package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/quillpad/internal/api/controller"
	"github.com/bassista/quillpad/internal/api/middleware"
	"github.com/bassista/quillpad/internal/session"
)

func NewSessionRouter(timeout time.Duration, group *gin.RouterGroup, coordinator *session.Coordinator) {
	group.Use(middleware.RequestTimeout(timeout))

	sc := controller.NewSessionController(coordinator)

	group.GET("session", sc.GetSession)
	group.POST("session/text", sc.UpdateText)
	group.POST("session/load", sc.Load)
	group.POST("session/save", sc.Save)
	group.POST("session/save-as", sc.SaveAs)
	group.POST("session/new", sc.NewDocument)
	group.POST("session/prompt", sc.ResolvePrompt)
	group.POST("session/exit", sc.RequestExit)
}
