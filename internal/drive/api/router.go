package api

import (
	"github.com/gin-gonic/gin"

	accountsapi "github.com/GaygysyzMyradov/EncryptedDrive/internal/accounts/api"
	"github.com/GaygysyzMyradov/EncryptedDrive/pkg/ratelimiter"
)

// SetupRouter assembles the gin engine: public auth routes, and the drive
// routes behind JWT authentication and the optional per-user throttle.
func SetupRouter(h *Handler, ah *accountsapi.Handler, jwtSecret string, limiter *ratelimiter.Keyed) *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", ah.Register)
			auth.POST("/login", ah.Login)
		}

		drive := apiV1.Group("")
		drive.Use(AuthMiddleware(jwtSecret))
		if limiter != nil {
			drive.Use(RateLimitMiddleware(limiter))
		}
		{
			drive.POST("/folders", h.CreateFolder)
			drive.GET("/folders", h.ListFolders)
			drive.DELETE("/folders/:slug", h.DeleteFolder)

			drive.POST("/folders/:slug/files", h.UploadFile)
			drive.GET("/folders/:slug/files", h.ListFiles)

			drive.GET("/files/:slug", h.GetFile)
			drive.GET("/files/:slug/download", h.DownloadFile)
			drive.DELETE("/files/:slug", h.DeleteFile)
		}
	}

	return r
}
