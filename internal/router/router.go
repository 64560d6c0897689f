// Package router wires HTTP routes to handlers.
package router

import (
	"time"

	"krushak/internal/config"
	"krushak/internal/handler"
	"krushak/internal/middleware"
	"krushak/pkg/auth"
	_ "krushak/swagger" // Import generated swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Equipment *handler.EquipmentHandler
	Booking   *handler.BookingHandler
	Sitemap   *handler.SitemapHandler
}

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, tokenManager auth.TokenManager, h Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/sitemap.xml", h.Sitemap.Get)

	authRequired := middleware.Auth(tokenManager)
	authOptional := middleware.OptionalAuth(tokenManager)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst).Middleware()

	api := r.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", loginLimiter, h.Auth.Register)
		users.POST("/login", loginLimiter, h.Auth.Login)
		users.POST("/refresh-token", h.Auth.Refresh)
		users.POST("/logout", h.Auth.Logout)
		users.POST("/logout-all", authRequired, h.Auth.LogoutAll)
		users.POST("/forgot-password", loginLimiter, h.Auth.ForgotPassword)
		users.POST("/reset-password/:token", h.Auth.ResetPassword)
		users.GET("/auth/google", h.Auth.GoogleLogin)
		users.GET("/auth/google/callback", h.Auth.GoogleCallback)

		users.GET("/me", authRequired, h.User.GetMe)
		users.PATCH("/me", authRequired, h.User.UpdateMe)
		users.POST("/change-password", authRequired, h.User.ChangePassword)
		users.POST("/avatar", authRequired, h.User.UploadAvatar)
		users.POST("/cover-image", authRequired, h.User.UploadCover)
		users.POST("/favorites/:equipmentId", authRequired, h.User.ToggleFavorite)
	}

	equipment := api.Group("/equipment")
	{
		equipment.GET("", h.Equipment.Search)
		equipment.GET("/filter", h.Equipment.Filter)
		equipment.GET("/my", authRequired, h.Equipment.Mine)
		equipment.GET("/:equipmentId", authOptional, h.Equipment.Get)

		equipment.POST("", authRequired, h.Equipment.Create)
		equipment.PATCH("/:equipmentId", authRequired, h.Equipment.Update)
		equipment.DELETE("/:equipmentId", authRequired, h.Equipment.Delete)

		equipment.POST("/:equipmentId/images", authRequired, h.Equipment.AddImages)
		equipment.DELETE("/:equipmentId/images", authRequired, h.Equipment.RemoveImage)
		equipment.PUT("/:equipmentId/video", authRequired, h.Equipment.ReplaceVideo)
	}

	bookings := api.Group("/bookings", authRequired)
	{
		bookings.POST("", h.Booking.Create)
		bookings.GET("/my", h.Booking.ListMine)

		// Owner listings are scoped by ownerId in the service, so a freshly
		// promoted owner can use them before their access token rotates.
		owner := bookings.Group("/owner")
		owner.GET("", h.Booking.ListOwner)
		owner.GET("/export", h.Booking.ExportOwner)

		bookings.PUT("/:bookingId/cancel", h.Booking.Cancel)
		bookings.PUT("/:bookingId/confirm", h.Booking.Confirm)
		bookings.PUT("/:bookingId/tracking", h.Booking.StartTracking)
		bookings.PUT("/:bookingId/complete", h.Booking.Complete)
	}

	return r
}
