package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/config"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/logging"
)

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

	metrics := aws.NewMetrics(clients.CloudWatch, cfg.Orders.MetricNamespace)
	processor := NewProcessor(clients.DynamoDB, cfg.Dynamo.OrdersTable, metrics, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1","customer_email":"local@dunder.com"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := processor.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(processor.Handle)
}
