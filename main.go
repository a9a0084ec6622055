package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tlbc-notify-backend/config"
	"tlbc-notify-backend/routes"
	"tlbc-notify-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	members := services.NewMembershipService(cfg)
	jobs, err := services.NewJobService(cfg, members)
	if err != nil {
		log.Fatalf("Failed to initialize jobs: %v", err)
	}

	// Verify API credentials up front; a failure here is not fatal, the
	// token is re-acquired on the next scheduled run.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := members.Login(ctx); err != nil {
		log.Printf("Could not connect to membership API: %v", err)
	}
	cancel()

	jobs.StartScheduler()

	r := routes.SetupRouter(cfg, jobs)
	printRoutes(r)

	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Dashboard server failed: %v", err)
		}
	}()
	log.Printf("Admin dashboard available at http://localhost:%s", cfg.Port)

	// Stop scheduling new runs on shutdown; an in-flight run completes.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Notification service shutting down")
	jobs.StopScheduler()
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
