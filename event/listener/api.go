package listener

import (
	"context"

	"marketplace-messenger/event"

	"github.com/sirupsen/logrus"
)

// Api logs every event arriving on the api queue until deliveries is closed
// or ctx is done.
func Api(ctx context.Context, deliveries <-chan event.Delivery, log logrus.FieldLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			log.WithFields(logrus.Fields{
				"queue":  d.Queue,
				"action": d.Action,
				"bytes":  len(d.Data),
			}).Info("event received")
		}
	}
}
