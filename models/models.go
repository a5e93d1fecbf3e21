package models

import "time"

type KafkaConfig struct {
	BootStrapServers string
	GroupID          string
	OffsetReset      string
	FetchMinBytes    string
	Topics           []string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type ServerConfig struct {
	ReconcileInterval time.Duration
}

// Reactions maps a reaction type (like, love, wow, ...) to its count.
type Reactions map[string]int64

// Post is the denormalized feed view of one post. The owner fields are
// a snapshot taken at save time, not a live join against the user store.
type Post struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	AvatarColor    string    `json:"avatarColor"`
	ProfilePicture string    `json:"profilePicture"`
	Post           string    `json:"post"`
	BgColor        string    `json:"bgColor"`
	Feelings       string    `json:"feelings"`
	Privacy        string    `json:"privacy"`
	GifUrl         string    `json:"gifUrl"`
	CommentsCount  int64     `json:"commentsCount"`
	ImgVersion     string    `json:"imgVersion"`
	ImgID          string    `json:"imgId"`
	VideoVersion   string    `json:"videoVersion"`
	VideoID        string    `json:"videoId"`
	Reactions      Reactions `json:"reactions"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PostEvent is the materialized-post event emitted by the durable write
// path once a post has been persisted.
type PostEvent struct {
	CacheKey      string `json:"cache_key"`
	CurrentUserID string `json:"current_user_id"`
	SequenceID    int64  `json:"sequence_id"`
	Post          Post   `json:"post"`
}
