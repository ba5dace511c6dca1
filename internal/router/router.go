package router

import (
	"net/http"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/handlers"
	"github.com/iksoll/VelvetCake/internal/metrics"
	"github.com/iksoll/VelvetCake/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Products      *handlers.ProductHandler
	Components    *handlers.ComponentHandler
	Orders        *handlers.OrderHandler
	Notifications *handlers.NotificationHandler
	Reviews       *handlers.ReviewHandler
	Cart          *handlers.CartHandler
	Configurator  *handlers.ConfiguratorHandler
}

type Options struct {
	CORSOrigins []string
	Tokens      middleware.TokenParser
	RateLimiter *middleware.RateLimiter // nil: без ограничения
	Metrics     *metrics.Metrics        // nil: без /metrics
}

func Router(h Handlers, opt Options, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AccessLog(log))
	if opt.Metrics != nil {
		r.Use(opt.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(opt.CORSOrigins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})
	if opt.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opt.Metrics.Handler()))
	}

	api := r.Group("/")
	if opt.RateLimiter != nil {
		api.Use(opt.RateLimiter.Handler())
	}
	auth := middleware.AuthRequired(opt.Tokens, log)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.POST("", auth, h.Products.Create)
		products.PUT("/:id", auth, h.Products.Update)
		products.DELETE("/:id", auth, h.Products.Delete)
	}

	components := api.Group("/components")
	{
		components.GET("/fillings", h.Components.ListFillings)
		components.GET("/cakeBases", h.Components.ListCakeBases)
		components.POST("/fillings", auth, h.Components.CreateFilling)
		components.POST("/cakeBases", auth, h.Components.CreateCakeBase)
		components.DELETE("/:id", auth, h.Components.Delete)
	}

	orders := api.Group("/orders", auth)
	{
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/my", h.Orders.ListMine)
		orders.PUT("/:id/status", h.Orders.UpdateStatus)
	}

	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", h.Notifications.List)
		notifications.POST("", h.Notifications.Send)
		notifications.POST("/send-by-email", h.Notifications.SendByEmail)
		notifications.DELETE("/clear", h.Notifications.Clear)
		notifications.PUT("/:id/read", h.Notifications.MarkRead)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", h.Reviews.List)
		reviews.POST("", auth, h.Reviews.Create)
		reviews.DELETE("/:id", auth, h.Reviews.Delete)
	}

	cart := api.Group("/cart", auth)
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.Add)
		cart.PUT("/items/:productId", h.Cart.SetQuantity)
		cart.DELETE("/items/:productId", h.Cart.Remove)
	}

	api.POST("/configurator/quote", h.Configurator.Quote)

	return r
}

// corsConfig: "*" среди источников включает любой origin, но без credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
