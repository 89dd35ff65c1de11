package http

import (
	"net/http"

	"github.com/velogo/bike-rental-service/internal/config"
	"github.com/velogo/bike-rental-service/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	rideHandler *RideHandler,
	trackingHandler *TrackingHandler,
	bookingHandler *BookingHandler,
	bikeHandler *BikeHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Booking / ride lifecycle routes
	bookings := router.Group("/bookings")
	bookings.Use(AuthMiddleware(tokenService))
	{
		bookings.GET("/my-rentals", bookingHandler.MyRentals)
		bookings.GET("/:bookingId", bookingHandler.GetBooking)
		bookings.POST("/:bookingId/start", rideHandler.StartRide)
		bookings.POST("/:bookingId/rides/:rideId/complete", rideHandler.CompleteRide)
	}

	// Ride tracking routes
	rides := router.Group("/rides")
	rides.Use(AuthMiddleware(tokenService))
	{
		rides.GET("/:rideId", rideHandler.GetRide)
		rides.GET("/:rideId/path", rideHandler.GetArchivedPath)
		rides.POST("/:rideId/fixes", trackingHandler.PublishFix)
		rides.GET("/:rideId/latest", trackingHandler.GetLatestFix)
		rides.GET("/:rideId/feed", trackingHandler.Feed)
	}

	// Bike routes
	bikes := router.Group("/bikes")
	bikes.Use(AuthMiddleware(tokenService))
	{
		bikes.GET("/:id", bikeHandler.GetBike)
		bikes.GET("/owner/:ownerId", bikeHandler.GetBikesByOwner)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
