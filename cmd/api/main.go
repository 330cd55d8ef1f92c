package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/config"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/handlers"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/logging"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/orderapi"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/storage"
)

func setupRouter(cfg *config.Config, clients *aws.AWSClients, kv storage.KV, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrderAPIRoutes(r, handlers.OrderAPIConfig{
		DynamoDBClient: clients.DynamoDB,
		SQSClient:      clients.SQS,
		Metrics:        aws.NewMetrics(clients.CloudWatch, cfg.Orders.MetricNamespace),
		OrdersTable:    cfg.Dynamo.OrdersTable,
		CustomersTable: cfg.Dynamo.CustomersTable,
		QueueURL:       cfg.Queue.OrdersQueueURL,
		JWTSecret:      []byte(cfg.Session.JWTSecret),
		Logger:         logger,
	})

	handlers.RegisterStorefrontRoutes(r, handlers.StorefrontConfig{
		KV:                   kv,
		Placer:               orderapi.New(cfg.Orders.APIBaseURL),
		SessionTTL:           cfg.Session.TTL,
		SessionCheckInterval: cfg.Session.CheckInterval,
		BasketTTL:            cfg.Basket.TTL,
		JWTSecret:            []byte(cfg.Session.JWTSecret),
		Logger:               logger,
	})

	return r
}

// openKV picks the visitor state backend from config.
func openKV(ctx context.Context, cfg *config.Config, clients *aws.AWSClients, logger zerolog.Logger) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return storage.NewRedis(ctx, cfg.Redis)
	case config.BackendDynamo:
		return storage.NewDynamo(clients.DynamoDB, cfg.Dynamo.SessionsTable), nil
	default:
		logger.Info().Msg("using in-memory visitor storage")
		return storage.NewMemory(), nil
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.App.LogLevel, cfg.App.IsDev())

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	kv, err := openKV(ctx, cfg, clients, logger)
	if err != nil {
		log.Fatalf("failed to open storage backend: %v", err)
	}

	r := setupRouter(cfg, clients, kv, logger)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":" + cfg.App.Port
		logger.Info().Str("addr", addr).Msg("running local server")
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
