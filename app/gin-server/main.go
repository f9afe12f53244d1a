package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/travoiq/callrelay/config"
	"github.com/travoiq/callrelay/internal/api/handlers"
	"github.com/travoiq/callrelay/internal/api/middleware"
	"github.com/travoiq/callrelay/internal/api/routes"
	"github.com/travoiq/callrelay/internal/broadcast"
	"github.com/travoiq/callrelay/internal/cache"
	"github.com/travoiq/callrelay/internal/logger"
	"github.com/travoiq/callrelay/internal/providers/telephony"
	dynamorepo "github.com/travoiq/callrelay/internal/repositories/dynamo"
	"github.com/travoiq/callrelay/internal/services"
)

func main() {
	_ = godotenv.Load()
	logg := logger.New()

	ctx := context.Background()
	if err := config.InitAWS(ctx, config.Region()); err != nil {
		log.Fatalf("AWS init error: %v", err)
	}
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}

	settings := config.LoadSettings(ctx, config.SSMClient, logg)
	logg.WithFields(logrus.Fields{
		"details_table":  settings.DetailsTable(),
		"customer_table": settings.CustomerSegmentsTable(),
		"agent_table":    settings.AgentSegmentsTable(),
		"region":         settings.Region,
	}).Info("resolved store tables")

	var detailsCache cache.Cache = cache.Noop{}
	if config.RedisClient != nil {
		detailsCache = cache.NewRedisCache(config.RedisClient)
	}

	detailsRepo := dynamorepo.NewDetailsRepo(config.DynamoClient, settings.DetailsTable())
	segmentRepo := dynamorepo.NewSegmentRepo(config.DynamoClient, settings.CustomerSegmentsTable(), settings.AgentSegmentsTable())

	hub := broadcast.NewHub(logg)
	agents := broadcast.NewAgentRegistry()

	calls := services.NewCallService(detailsRepo, hub, detailsCache, logg)
	transcripts := services.NewTranscriptService(segmentRepo, settings.PollInterval, logg)
	backend := telephony.NewConnectProvider(config.ConnectClient, settings.InstanceID,
		settings.ContactFlowID, settings.QueueID, settings.SourcePhone, logg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(logg))

	routes.RegisterRoutes(r, routes.Deps{
		Call:    handlers.NewCallHandler(calls, logg),
		Control: handlers.NewControlHandler(backend, logg),
		WS:      handlers.NewWSHandler(transcripts, hub, agents, logg),
	})

	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
