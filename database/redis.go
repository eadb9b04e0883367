package database

import (
	"context"
	"fmt"
	"time"

	"marketplace-messenger/config"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisConnect opens the client backing the socket.io adapter.
func RedisConnect(cfg config.Redis, log logrus.FieldLogger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "database.RedisConnect.Ping")
	}

	log.WithField("addr", client.Options().Addr).Info("connection opened to Redis")
	return client, nil
}
