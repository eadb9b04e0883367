package config

import (
	"errors"
	"time"
)

type Settings struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	RabbitMQ RabbitMQ
	JWT      JWT
	Log      Log

	StorageTimeout time.Duration
	SocketDebug    bool
}

type Server struct {
	Port string
}

type Postgres struct {
	Host         string
	Port         string
	User         string
	Password     string
	DB           string
	MaxOpenConns int
}

type Redis struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a redis host was configured.
func (r Redis) Enabled() bool { return r.Host != "" }

type RabbitMQ struct {
	Host     string
	Port     string
	User     string
	Password string
	Queue    string
	EventLog string
	// Replay names a journal whose events are re-published at startup.
	Replay string
}

func (r RabbitMQ) Enabled() bool { return r.Host != "" }

type JWT struct {
	AccessKey    string
	AccessExpire time.Duration
}

type Log struct {
	Level  string
	Format string
}

func Load() (*Settings, error) {
	s := &Settings{
		Server: Server{
			Port: String("SERVER_PORT", "8080"),
		},
		Postgres: Postgres{
			Host:         Config("POSTGRES_HOST"),
			Port:         String("POSTGRES_PORT", "5432"),
			User:         Config("POSTGRES_USER"),
			Password:     Config("POSTGRES_PASSWORD"),
			DB:           Config("POSTGRES_DB"),
			MaxOpenConns: Int("POSTGRES_MAX_OPEN_CONNS", 20),
		},
		Redis: Redis{
			Host:     Config("REDIS_HOST"),
			Port:     String("REDIS_PORT", "6379"),
			Password: Config("REDIS_PASSWORD"),
			DB:       Int("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQ{
			Host:     Config("RABBITMQ_HOST"),
			Port:     String("RABBITMQ_PORT", "5672"),
			User:     Config("RABBITMQ_USER"),
			Password: Config("RABBITMQ_PASSWORD"),
			Queue:    String("RABBITMQ_QUEUE", "messenger"),
			EventLog: Config("EVENT_LOG"),
			Replay:   Config("EVENT_REPLAY"),
		},
		JWT: JWT{
			AccessKey:    Config("JWT_ACCESS_KEY"),
			AccessExpire: time.Duration(Int("JWT_ACCESS_EXPIRE", 60)) * time.Minute,
		},
		Log: Log{
			Level:  String("LOG_LEVEL", "info"),
			Format: String("LOG_FORMAT", "text"),
		},
		StorageTimeout: Duration("STORAGE_TIMEOUT", 5*time.Second),
		SocketDebug:    Bool("SOCKET_DEBUG", false),
	}

	if s.JWT.AccessKey == "" {
		return nil, errors.New("JWT_ACCESS_KEY is required")
	}
	if s.Postgres.Host == "" {
		return nil, errors.New("POSTGRES_HOST is required")
	}
	return s, nil
}
