// Package main provides the publisher service entry point.
// Reads the local seed file and publishes each event to the meds exchange.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/medwatch/go-medtrack/internal/infrastructure/rabbitmq"
	"github.com/medwatch/go-medtrack/internal/seed"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	seedPath := os.Getenv("SEED_FILE")
	if seedPath == "" {
		seedPath = "events.json"
	}

	brokerURL := os.Getenv("RABBIT_URL")
	if brokerURL == "" {
		brokerURL = rabbitmq.DefaultConfig().URL
	}

	events, err := seed.Load(seedPath)
	if err != nil {
		logger.Fatal("seed load failed", zap.Error(err))
	}

	broker, err := rabbitmq.Connect(rabbitmq.Config{URL: brokerURL}, logger)
	if err != nil {
		logger.Fatal("broker connection failed", zap.Error(err))
	}
	defer broker.Close()

	publisher := rabbitmq.NewPublisher(broker, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			logger.Error("event marshal failed",
				zap.Int64("p_id", ev.PatientID),
				zap.Error(err))
			continue
		}
		if err := publisher.Publish(ctx, body); err != nil {
			logger.Fatal("publish failed",
				zap.Int64("p_id", ev.PatientID),
				zap.String("medication_name", ev.MedicationName),
				zap.Error(err))
		}
	}

	logger.Info("pushed all events to broker",
		zap.Int("count", len(events)),
		zap.String("file", seedPath))
}
