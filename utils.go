package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"feedcache/models"
)

func LoadConfig() (models.ServerConfig, error) {
	// .env is optional, env vars win either way
	godotenv.Load(".env")

	config := models.ServerConfig{
		ReconcileInterval: 5 * time.Minute,
	}
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return models.ServerConfig{}, err
		}
		config.ReconcileInterval = interval
	}
	return config, nil
}

func LoadRedisConfig() (models.RedisConfig, error) {
	config := models.RedisConfig{
		Addr:     os.Getenv("CACHE_ADDR"),
		Password: os.Getenv("CACHE_PASSWORD"),
	}
	return config, nil
}

func LoadKafkaConfig() (models.KafkaConfig, error) {
	config := models.KafkaConfig{
		BootStrapServers: os.Getenv("BOOTSTRAP_SERVERS"),
		GroupID:          os.Getenv("GROUP_ID"),
		OffsetReset:      os.Getenv("OFFSET_RESET"),
		FetchMinBytes:    os.Getenv("FETCH_MIN_BYTES"),
		Topics:           strings.Split(os.Getenv("TOPICS"), ","),
	}
	return config, nil
}
