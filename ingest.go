package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"feedcache/models"
	postcache "feedcache/postCache"
)

var log = logrus.WithField("component", "ingest")

// PostConsumer reads materialized-post events from the durable write
// path and saves each one into the feed cache.
type PostConsumer struct {
	c     *kafka.Consumer
	cache postcache.Cache
}

func NewPostConsumer(config models.KafkaConfig, cache postcache.Cache) (*PostConsumer, error) {
	groupID := config.GroupID
	if groupID == "" {
		groupID = "feedcache-" + uuid.NewString()
	}
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": config.BootStrapServers,
		"group.id":          groupID,

		// for better batching
		"fetch.min.bytes":   config.FetchMinBytes,
		"auto.offset.reset": config.OffsetReset,

		// offsets are committed per message once its save succeeded,
		// at-least-once
		"enable.auto.commit": false,
	})
	if err != nil {
		log.WithError(err).Error("Failed to initialize kafka consumer")
		return nil, err
	}
	if err := c.SubscribeTopics(config.Topics, nil); err != nil {
		log.WithError(err).Error("Failed to subscribe to topics")
		return nil, err
	}

	return &PostConsumer{
		c:     c,
		cache: cache,
	}, nil
}

// Run polls and saves serially. Saves for one user race on the
// postsCount read-modify-write, so messages are not fanned out to
// goroutines; a failed save leaves the offset uncommitted and the
// event is redelivered.
func (pc *PostConsumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			ev := pc.c.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				if err := pc.ProcessMessage(ctx, e); err != nil {
					log.WithError(err).Error("Failed to process post event")
				} else if _, err := pc.c.CommitMessage(e); err != nil {
					log.WithError(err).Error("Failed to commit offset")
				}
			case kafka.Error:
				log.WithField("error", e).Error("Kafka consumer error")
			}
		}
	}
}

// ProcessMessage decodes one materialized-post event and saves it.
// Malformed payloads are rejected without touching the cache.
func (pc *PostConsumer) ProcessMessage(ctx context.Context, msg *kafka.Message) error {
	var event models.PostEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal post event: %w", err)
	}
	if event.CacheKey == "" || event.CurrentUserID == "" {
		return fmt.Errorf("post event missing cache_key or current_user_id")
	}

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return pc.cache.SavePost(saveCtx, event.CacheKey, event.CurrentUserID, event.SequenceID, event.Post)
}

func (pc *PostConsumer) Close() error {
	return pc.c.Close()
}
