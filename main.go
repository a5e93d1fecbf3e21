package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	postcache "feedcache/postCache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appConfig, err := LoadConfig()
	if err != nil {
		log.Fatal("Error in Loading Service Config: ", err.Error())
	}
	kafkaConfig, err := LoadKafkaConfig()
	if err != nil {
		log.Fatal("Error in Loading Kafka Config: ", err.Error())
	}
	cacheConfig, err := LoadRedisConfig()
	if err != nil {
		log.Fatal("Error in Loading Redis Config: ", err.Error())
	}

	cache := postcache.New(cacheConfig)
	consumer, err := NewPostConsumer(kafkaConfig, cache)
	if err != nil {
		log.Fatal("Error in Starting Post Consumer: ", err.Error())
	}

	go consumer.Run(ctx)
	go reconcileLoop(ctx, cache, appConfig.ReconcileInterval)

	<-ctx.Done()

	consumer.Close()
	cache.Close()
}

func reconcileLoop(ctx context.Context, cache *postcache.PostCache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cache.PruneDangling(ctx); err != nil {
				log.WithError(err).Error("Reconcile pass failed")
			}
		}
	}
}
