// Command ouroboros-core is the warehouse inventory coordination process:
// it wires configuration, the document store, blob storage, and the
// message broker into a Router and runs until signalled to stop.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rubic/ouroboros/internal/blobstore"
	"github.com/rubic/ouroboros/internal/broker"
	"github.com/rubic/ouroboros/internal/config"
	"github.com/rubic/ouroboros/internal/inventorystore/mongostore"
	"github.com/rubic/ouroboros/internal/planner"
	"github.com/rubic/ouroboros/internal/render"
	"github.com/rubic/ouroboros/internal/response"
	"github.com/rubic/ouroboros/internal/router"
	"github.com/rubic/ouroboros/internal/scancompiler"
	"github.com/rubic/ouroboros/internal/scaningest"
	"github.com/rubic/ouroboros/internal/scanrequest"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("loading configuration")
	}
	if settings.AMQPConnStr == "" {
		zerolog.New(os.Stderr).Fatal().Msg("AMQP_SSL_CONN_STR environment variable not found")
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(settings.MongoConnStr))
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongo")
	}
	defer mongoClient.Disconnect(context.Background())
	store := mongostore.New(mongoClient, settings.MongoDatabase)

	var blobs *blobstore.Store
	if settings.AzureBlobConnStr != "" {
		blobs, err = blobstore.New(settings.AzureBlobConnStr)
		if err != nil {
			log.Fatal().Err(err).Msg("connecting to azure blob storage")
		}
	} else {
		log.Warn().Msg("AZURE_BLOB_CONN not set, scan image uploads are disabled")
	}

	bus, err := broker.Dial(settings.AMQPConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to broker")
	}
	defer bus.Close()

	r := router.New(
		bus,
		planner.New(store, log),
		response.New(store, log),
		scancompiler.New(store, log),
		scaningest.New(store, blobs, log),
		scanrequest.New(log),
		render.NullRenderer{},
		log,
	)

	log.Info().Msg("ouroboros-core started")
	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("router stopped unexpectedly")
	}
	log.Info().Msg("ouroboros-core stopped")
}
