package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	intconfig "tiketku/internal/config"
	intdb "tiketku/internal/db"
	router "tiketku/internal/http"
	"tiketku/internal/http/handlers"
	"tiketku/internal/repositories"
	"tiketku/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if err := intdb.EnsureSchema(db); err != nil {
		log.Fatalf("Gagal menyiapkan skema database: %v", err)
	}

	// Redis is optional; without it seat listings always hit MySQL.
	var cache *redis.Client
	if env.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: env.RedisAddr})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Printf("warning: redis tidak terjangkau (%v), cache kursi dimatikan", err)
			cache = nil
		}
	}

	bookingRepo := repositories.BookingRepository{DB: db}
	inventoryRepo := repositories.InventoryRepository{DB: db}
	scheduleRepo := repositories.ScheduleRepository{DB: db}
	vehicleRepo := repositories.VehicleRepository{DB: db}
	routeRepo := repositories.RouteRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}

	inventorySvc := services.NewInventoryService(inventoryRepo, cache)
	scheduleSvc := services.NewScheduleService(scheduleRepo, vehicleRepo, routeRepo, inventorySvc)
	bookingSvc := services.NewBookingService(bookingRepo, scheduleRepo, inventorySvc, env.PaymentWindow)

	expirySvc := services.NewExpiryService(bookingRepo, inventorySvc, env.SweepInterval)
	if err := expirySvc.Start(); err != nil {
		log.Fatalf("Gagal menjalankan penyapu kedaluwarsa: %v", err)
	}
	defer expirySvc.Stop()

	api := &handlers.API{
		Env:       env,
		DB:        db,
		Users:     userRepo,
		Vehicles:  vehicleRepo,
		Routes:    routeRepo,
		Schedules: scheduleSvc,
		Bookings:  bookingSvc,
		Inventory: inventorySvc,
		Docs: services.DocsService{
			Bookings:  bookingRepo,
			Schedules: scheduleRepo,
		},
	}

	r := router.NewRouter(api)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
