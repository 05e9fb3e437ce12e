// Package config loads the layered application configuration.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from multiple sources, in order:
//  1. .env file (environment variables)
//  2. config.yaml (base configuration)
//  3. config/crawlers.json (per-crawler settings, merged in)
//
// Environment variables override file values with the same key.
func LoadConfig() {
	// Load environment variables from .env; a missing file is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	setDefaults()

	viper.SetConfigName("config") // config file name (no extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// A missing base config is normal; defaults and environment
			// variables still apply.
			log.Printf("No base config file (config.yaml) found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error parsing base config file: %w", err))
		}
	}

	// Merge the per-crawler settings file (config/crawlers.json).
	viper.SetConfigName("crawlers")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No crawler settings file (config/crawlers.json) found, skipping merge.")
		} else {
			panic(fmt.Errorf("fatal error merging crawler settings: %w", err))
		}
	}
}

func setDefaults() {
	viper.SetDefault("database.path", "data/reliefwatch_user.db")
	viper.SetDefault("database.curatedPath", "data/reliefwatch_curated.db")
	viper.SetDefault("disasters.path", "data/disaster_types.json")
	viper.SetDefault("classify.baseUrl", "http://127.0.0.1:5000")
	viper.SetDefault("crawl.crawler", "MOCK")
	viper.SetDefault("crawl.schedule", "@hourly")
	viper.SetDefault("crawl.maxResults", 10)
	viper.SetDefault("crawl.commentLimit", 5)
	viper.SetDefault("crawl.defaultDisaster", "yagi")
	viper.SetDefault("retention.days", 0) // 0 disables retention cleanup
}
