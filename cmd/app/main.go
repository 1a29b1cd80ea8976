package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"driverapp/cmd"
	httpadapter "driverapp/internal/adapters/in/http"
	"driverapp/internal/adapters/in/ws"
	"driverapp/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	ctx := context.Background()
	if err := app.OrderFeed().Start(ctx); err != nil {
		log.Fatalf("Error starting order feed: %v", err)
	}
	defer app.OrderFeed().Close()

	go app.Hub().Run()

	pusher := app.CreatePusher()
	if err := pusher.Start(ctx); err != nil {
		log.Fatalf("Error starting mission pusher: %v", err)
	}
	defer pusher.Stop()

	listSync := app.CreateListSync()
	if err := listSync.Start(ctx); err != nil {
		log.Fatalf("Error starting list sync: %v", err)
	}
	defer listSync.Stop()

	jobManager := app.CreateJobManager()
	defer jobManager.StopAll()

	startWebServer(&app, jobManager, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func startWebServer(app *cmd.CompositionRoot, jobManager *jobs.JobManager, port string) {
	e := echo.New()

	server := httpadapter.NewServer(
		app.CreateAcceptMissionCommandHandler(),
		app.CreateStartDeliveryCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateSetPresenceCommandHandler(),
		app.CreateGetMissionQueryHandler(),
		app.CreateGetActiveMissionsQueryHandler(),
		jobManager,
		app.Reconciler(),
	)
	server.RegisterRoutes(e)

	hub := app.Hub()
	e.GET("/ws/drivers/:id", func(c echo.Context) error {
		return ws.ServeWS(hub, c)
	})

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
