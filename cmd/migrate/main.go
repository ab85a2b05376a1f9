// Command migrate prepares the configured lead store: Mongo indexes or the
// DynamoDB leads table with its CRM index. It is safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/LucianBellevue/ba-website/internal/platform/config"
	"github.com/LucianBellevue/ba-website/internal/platform/logging"
	"github.com/LucianBellevue/ba-website/internal/store/dynamo"
	"github.com/LucianBellevue/ba-website/internal/store/mongo"
)

const migrateTimeout = 5 * time.Minute

func main() {
	cfg := config.MustLoad()
	log := logging.NewWithLevel(os.Stdout, cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := migrate(ctx, cfg, log); err != nil {
		log.Error("migration failed", "db", cfg.DBType, "err", err)
		os.Exit(1)
	}
	log.Info("migration complete", "db", cfg.DBType)
}

func migrate(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	switch cfg.DBType {
	case config.DBMongo:
		client, err := mongo.NewClient(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				log.Warn("mongo close failed", "err", err)
			}
		}()
		return mongo.EnsureIndexes(ctx, client.DB)

	case config.DBDynamo:
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("connect dynamodb: %w", err)
		}
		return dynamo.EnsureTables(ctx, client.DB, cfg.DynamoLeadsTable, log)

	default:
		log.Info("in-memory store; nothing to migrate")
		return nil
	}
}
