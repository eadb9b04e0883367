package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"marketplace-messenger/config"
	"marketplace-messenger/controller"
	"marketplace-messenger/database"
	"marketplace-messenger/event"
	"marketplace-messenger/event/listener"
	"marketplace-messenger/policy"
	"marketplace-messenger/realtime"
	"marketplace-messenger/router"
	"marketplace-messenger/service"
	"marketplace-messenger/socketio"
	"marketplace-messenger/store"
	"marketplace-messenger/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := utils.NewLogger(settings.Log.Level, settings.Log.Format)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.PostgresConnect(settings.Postgres, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Postgres")
	}

	enforcer, err := database.Casbin(db)
	if err != nil {
		log.WithError(err).Fatal("failed to load access policies")
	}

	var redisClient *redis.Client
	if settings.Redis.Enabled() {
		redisClient, err = database.RedisConnect(settings.Redis, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
	}

	var publisher event.Publisher = event.NopPublisher{}
	var broker *event.Broker
	if settings.RabbitMQ.Enabled() {
		broker, err = event.RabbitMQConnect(settings.RabbitMQ, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		publisher = broker

		apiEvents := make(chan event.Delivery)
		if err := broker.Subscribe(event.ApiQueue, apiEvents); err != nil {
			log.WithError(err).Fatal("failed to subscribe to api queue")
		}
		go listener.Api(ctx, apiEvents, log)

		if settings.RabbitMQ.Replay != "" {
			replay(ctx, broker, settings.RabbitMQ.Replay, log)
		}
	} else {
		log.Info("RabbitMQ not configured, domain events disabled")
	}

	opts := store.Options{Timeout: settings.StorageTimeout}
	notifications := store.NewNotificationStore(db, opts)
	gate := policy.NewGate(enforcer, log)
	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, log)

	messenger := service.NewMessenger(service.MessengerDeps{
		Conversations: store.NewConversationStore(db, opts),
		Messages:      store.NewMessageStore(db, opts),
		Notifications: notifications,
		Directory:     store.NewDirectory(db, opts),
		Gate:          gate,
		Pusher:        dispatcher,
		Events:        publisher,
		Log:           log,
	})

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "marketplace-messenger",
		ErrorHandler:          controller.ErrorHandler(log),
	})
	rest.Use(recover.New())
	rest.Use(requestid.New())
	rest.Use(cors.New())

	socket := socketio.Init(rest, socketio.Options{
		JWTKey: settings.JWT.AccessKey,
		Redis:  redisClient,
		Debug:  settings.SocketDebug,
		Log:    log,
	})

	router.Rest(rest, router.Handlers{
		Messenger:    controller.NewMessenger(messenger),
		Notification: controller.NewNotification(service.NewNotifications(notifications, gate)),
	}, settings.JWT.AccessKey)
	router.Socket(socket, router.NewRelay(registry, dispatcher, log))

	go func() {
		addr := fmt.Sprintf(":%s", settings.Server.Port)
		log.WithField("addr", addr).Info("listening")
		if err := rest.Listen(addr); err != nil {
			log.WithError(err).Error("server stopped")
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-signals
	log.WithField("signal", s.String()).Info("shutting down")

	stop()
	registry.Close()
	socket.Close(nil)
	if err := rest.Shutdown(); err != nil {
		log.WithError(err).Warn("fiber shutdown")
	}
	if broker != nil {
		if err := broker.Close(); err != nil {
			log.WithError(err).Warn("RabbitMQ close")
		}
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		log.WithError(err).Warn("Postgres close")
	}
}

func replay(ctx context.Context, broker *event.Broker, path string, log logrus.FieldLogger) {
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("event replay skipped")
		return
	}
	defer f.Close()

	n, err := broker.Replay(ctx, f)
	if err != nil {
		log.WithError(err).WithField("replayed", n).Warn("event replay stopped")
		return
	}
	log.WithField("replayed", n).Info("event journal replayed")
}
