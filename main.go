// File: screenqa/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screenqa/config"
	"screenqa/cron"
	"screenqa/handlers"
	"screenqa/routes"
	"screenqa/services/agent"
	"screenqa/services/calendar"
	"screenqa/services/rtc"
	"screenqa/services/screenshare"
	"screenqa/services/tasks"
	"screenqa/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()

	// Booking backend.
	cal, err := calendar.NewGoogleCalendar(calendar.GoogleCalendarConfig{
		AccessToken: config.AppConfig.GoogleCalAccessToken,
		CalendarID:  config.AppConfig.CalendarID,
		BaseURL:     config.AppConfig.GoogleCalBaseURL,
		Timezone:    config.AppConfig.CalendarTimezone,
		DurationMin: config.AppConfig.EventDurationMin,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: failed to configure calendar backend: %v", err)
	}
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	if err := cal.Initialize(initCtx); err != nil {
		logger.Sugar().Warnf("main: calendar initialization failed, booking may be degraded: %v", err)
	}
	cancelInit()

	// Latest-frame buffer shared between the room transport and the agent.
	frames := screenshare.NewLastFrame()

	var gemini *agent.GeminiClient
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err = agent.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize gemini client: %v", err)
		}
	} else {
		logger.Sugar().Warn("main: GEMINI_API_KEY not set, screen answering disabled")
	}

	loc, err := time.LoadLocation(config.AppConfig.CalendarTimezone)
	if err != nil {
		logger.Sugar().Warnf("main: unknown timezone %q, falling back to UTC", config.AppConfig.CalendarTimezone)
		loc = time.UTC
	}

	ctxStore := agent.NewRedisContextStore(utils.GetAgentCtxCacheClient(), utils.AgentCtxTTL)
	agentSvc := agent.NewDefaultAgentService(cal, frames, gemini, ctxStore, loc)

	// Appointment reminders ride the asynq queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueue,
	})
	defer asynqClient.Close()
	agentSvc.Reminders = &tasks.ReminderScheduler{Client: asynqClient}
	go cron.InitReminderWorker()

	// Room transport: join the conference room and serve data-channel chat.
	var transport *rtc.RoomTransport
	if config.AppConfig.LiveKitURL != "" {
		transport = rtc.NewRoomTransport(rtc.RoomConfig{
			URL:       config.AppConfig.LiveKitURL,
			APIKey:    config.AppConfig.LiveKitAPIKey,
			APISecret: config.AppConfig.LiveKitAPISecret,
			RoomName:  config.AppConfig.LiveKitRoom,
			Identity:  config.AppConfig.AgentIdentity,
		}, agentSvc, frames)
		if err := transport.Connect(context.Background()); err != nil {
			logger.Sugar().Fatalf("main: failed to join room: %v", err)
		}
	} else {
		logger.Sugar().Warn("main: LIVEKIT_URL not set, running REST-only")
	}

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAgentCtxCacheClient()},
		func(ctx context.Context) error { return cal.Initialize(ctx) },
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	agentHandler := handlers.NewAgentHandler(agentSvc)
	calendarHandler := handlers.NewCalendarHandler(agentSvc)

	handlerBundle := &handlers.HandlerBundle{
		// Agent endpoints.
		AskHandler: agentHandler.AskHandler,
		STTHandler: agentHandler.STTHandler,

		// Calendar endpoints.
		ListSlotsHandler: calendarHandler.ListSlotsHandler,
		BookSlotHandler:  calendarHandler.BookSlotHandler,

		// Room endpoints.
		JoinTokenHandler: handlers.JoinTokenHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	if transport != nil {
		transport.Disconnect()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
