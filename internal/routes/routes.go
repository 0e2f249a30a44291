package routes

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"wallpaper-catalog/internal/config"
	"wallpaper-catalog/internal/handlers"
	"wallpaper-catalog/internal/middleware"
	"wallpaper-catalog/internal/services"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Wallpapers *services.WallpaperService
	Auth       *services.AuthService
	Contact    *services.ContactService
}

// New builds the gin engine with every API route mounted.
func New(cfg *config.Config, svc Services, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded files and their variants
	router.Static(cfg.UploadsURLPrefix, cfg.UploadsDir)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	wallpapersHandler := handlers.NewWallpapersHandler(svc.Wallpapers)
	authHandler := handlers.NewAuthHandler(svc.Auth)
	contactHandler := handlers.NewContactHandler(svc.Contact)
	requireAdmin := middleware.AuthMiddleware(cfg)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)

		wallpapers := api.Group("/wallpapers")
		{
			wallpapers.GET("", wallpapersHandler.List)
			wallpapers.GET("/meta/categories", wallpapersHandler.Categories)
			wallpapers.GET("/:id", wallpapersHandler.Get)

			admin := wallpapers.Group("", requireAdmin)
			admin.POST("/upload", wallpapersHandler.Upload)
			admin.POST("/bulk", wallpapersHandler.BulkUpload)
			admin.POST("/upload-video-wallpaper", wallpapersHandler.UploadVideo)
			admin.POST("/:id/video", wallpapersHandler.AttachVideo)
			admin.PUT("/:id", wallpapersHandler.Update)
			admin.DELETE("/:id", wallpapersHandler.Delete)
		}

		auth := api.Group("/auth")
		{
			auth.GET("/status", authHandler.Status)
			auth.POST("/status", authHandler.Status)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		password := api.Group("/password")
		{
			password.POST("/setup", authHandler.SetupPassword)
			password.POST("/change", requireAdmin, authHandler.ChangePassword)
		}

		api.POST("/contact", contactHandler.Submit)

		messages := api.Group("/messages", requireAdmin)
		{
			messages.GET("", contactHandler.ListMessages)
			messages.DELETE("", contactHandler.DeleteAllMessages)
			messages.DELETE("/:id", contactHandler.DeleteMessage)
		}
	}

	return router
}
