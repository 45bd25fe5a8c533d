package main

import (
	"customs-web/internal/config"
	"customs-web/internal/database"
	"customs-web/internal/router"
	"customs-web/internal/utils"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Uploads and generated exports land on local disk
	for _, dir := range []string{cfg.UploadPath, cfg.ExportPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// The single calculators only need a rate snapshot, so a missing
	// database or Redis degrades the batch features instead of killing
	// the process.
	db, err := database.NewMySQL(cfg)
	if err != nil {
		log.Printf("Warning: no database connection: %v", err)
		log.Printf("Continuing without batch persistence and rate imports")
		db = nil
	} else {
		defer db.Close()
	}

	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.Printf("Warning: no Redis connection: %v", err)
		log.Printf("Continuing without background jobs and progress tracking")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.UploadMaxSize,
		ErrorHandler: apiErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	router.Setup(app, db, redisClient, cfg)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nGracefully shutting down...")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.AppPort)
	log.Printf("%s (%s) listening on %s", cfg.AppName, cfg.AppEnv, addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Println("Server exited")
}

// apiErrorHandler keeps unhandled errors in the same envelope the handlers
// use, so clients never see fiber's default text/plain error page.
func apiErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return utils.ErrorResponse(c, code, message, err)
}
