package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"reliefwatch/classify"
	"reliefwatch/config"
	"reliefwatch/crawler"
	"reliefwatch/database"
	"reliefwatch/disaster"
	"reliefwatch/pipeline"
	"reliefwatch/service"
	"reliefwatch/utils"
)

func main() {
	config.LoadConfig()
	utils.InitLogger()
	defer utils.CloseLogger()

	// Disaster type registry: built-in defaults plus persisted custom types.
	disasters := disaster.NewManager()
	disasterStore := disaster.NewFileStore(viper.GetString("disasters.path"))
	if err := disasterStore.Load(disasters); err != nil {
		log.Printf("Could not load custom disaster types: %v", err)
	}

	// One long-lived store handle, injected everywhere it is needed.
	store := database.NewStore(viper.GetString("database.path"))
	loader := database.NewLoader(viper.GetString("database.curatedPath"), store, disasters)

	classifier := classify.NewClient(viper.GetString("classify.baseUrl"), nil)

	registry := crawler.NewRegistry()
	crawler.RegisterDefaults(registry)

	model := service.NewModel(store, loader, disasters, classifier, classifier)
	ingest := pipeline.New(store, disasters)

	// Seed from the curated snapshot when one is present.
	if count, err := model.LoadFromCurated(); err != nil {
		if errors.Is(err, database.ErrCuratedNotFound) {
			log.Println("No curated snapshot found; starting with the existing user store.")
		} else {
			log.Fatalf("Curated load failed, data may be inconsistent: %v", err)
		}
	} else {
		log.Printf("Persisted data loaded: %d posts", count)
	}

	scheduler := service.NewScheduler(model, ingest, registry)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Could not start scheduler: %v", err)
	}

	log.Println("reliefwatch is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	scheduler.Stop()

	if err := disasterStore.Save(disasters); err != nil {
		log.Printf("Could not save custom disaster types: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}
