package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	h "tiketku/internal/http/handlers"
	"tiketku/internal/http/middleware"
)

func NewRouter(a *h.API) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(a.Env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := []byte(a.Env.JWTSecret)
	authed := middleware.RequireAuth(secret)
	admin := middleware.RequireRole("admin")

	api := r.Group("/api")
	{
		api.GET("/health", a.Health)
		api.GET("/db-check", a.DBCheck)
		api.GET("/routes-info", a.ListRoutesInfo)

		auth := api.Group("/auth")
		auth.POST("/login", a.Login)
		auth.POST("/register", a.Register)

		users := api.Group("/users", authed, admin)
		users.GET("", a.GetUsers)
		users.GET("/:id", a.GetUserByID)

		vehicles := api.Group("/vehicles")
		vehicles.GET("", a.GetVehicles)
		vehicles.GET("/:id", a.GetVehicleByID)
		vehicles.POST("", authed, admin, a.CreateVehicle)
		vehicles.PUT("/:id", authed, admin, a.UpdateVehicle)
		vehicles.DELETE("/:id", authed, admin, a.DeleteVehicle)

		routes := api.Group("/routes")
		routes.GET("", a.GetRoutes)
		routes.GET("/:id", a.GetRouteByID)
		routes.POST("", authed, admin, a.CreateRoute)
		routes.DELETE("/:id", authed, admin, a.DeleteRoute)

		schedules := api.Group("/schedules")
		schedules.GET("", a.GetSchedules)
		schedules.GET("/:id", a.GetScheduleByID)
		schedules.GET("/:id/seats", a.GetScheduleSeats)
		schedules.POST("", authed, admin, a.CreateSchedule)
		schedules.PUT("/:id", authed, admin, a.UpdateSchedule)
		schedules.DELETE("/:id", authed, admin, a.DeleteSchedule)
		schedules.POST("/:id/seats/regenerate", authed, admin, a.RegenerateScheduleSeats)

		bookings := api.Group("/bookings", authed)
		bookings.POST("", a.CreateBooking)
		bookings.GET("/user/:userId", a.GetUserBookings)
		bookings.GET("/:id", a.GetBooking)
		bookings.POST("/:id/payment", a.PayBooking)
		bookings.POST("/:id/cancel", a.CancelBooking)
		bookings.GET("/:id/e-ticket", a.GetBookingETicketPDF)
		bookings.GET("/:id/invoice", a.GetBookingInvoicePDF)
	}

	a.SetRouter(r)
	return r
}
