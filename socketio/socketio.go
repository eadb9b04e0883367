package socketio

import (
	"context"
	"time"

	"marketplace-messenger/realtime"
	"marketplace-messenger/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var errDisconnected = errors.New("socket disconnected")

type Options struct {
	// JWTKey verifies handshake tokens.
	JWTKey string
	// Redis, when set, routes emits to sockets held by other nodes.
	Redis *redis.Client
	Debug bool
	Log   logrus.FieldLogger
}

// Init mounts the socket.io endpoint on app. Connections are only admitted
// with a valid token in the "token" handshake query; the authenticated user id
// is stored as the socket data.
func Init(app *fiber.App, opts Options) *socket.Server {
	log.DEBUG = opts.Debug

	options := socket.DefaultServerOptions()
	options.SetServeClient(true)
	options.SetAllowEIO3(true)
	options.SetPingInterval(25 * time.Second)
	options.SetPingTimeout(20 * time.Second)
	options.SetMaxHttpBufferSize(1000000)
	options.SetConnectTimeout(45 * time.Second)
	if opts.Redis != nil {
		options.SetAdapter(&adapter.RedisAdapterBuilder{
			Redis: r_type.NewRedisClient(context.Background(), opts.Redis),
			Opts:  &adapter.RedisAdapterOptions{},
		})
	}

	server := socket.NewServer(nil, options)

	server.Use(func(client *socket.Socket, next func(*socket.ExtendedError)) {
		token, _ := client.Conn().Request().Query().Get("token")

		userID, err := utils.Authenticate(token, opts.JWTKey)
		if err != nil {
			opts.Log.WithError(err).Debug("socket handshake rejected")
			next(socket.NewExtendedError("authentication error", nil))
			return
		}

		client.SetData(userID)
		next(nil)
	})

	app.Get("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))
	app.Post("/socket.io/", adaptor.HTTPHandler(server.ServeHandler(options)))

	return server
}

// UserID returns the id the handshake attached to client.
func UserID(client *socket.Socket) (int64, bool) {
	id, ok := client.Data().(int64)
	return id, ok && id > 0
}

type conn struct {
	server *socket.Server
	client *socket.Socket
}

// NewConn wraps a connected socket as a presence handle. Emits go through the
// server to the socket's own room so the adapter can deliver them from any node.
func NewConn(server *socket.Server, client *socket.Socket) realtime.Conn {
	return conn{server: server, client: client}
}

func (c conn) ID() string {
	return string(c.client.Id())
}

func (c conn) Emit(event string, payload any) error {
	if !c.client.Connected() {
		return errDisconnected
	}
	c.server.To(socket.Room(c.client.Id())).Emit(event, payload)
	return nil
}
