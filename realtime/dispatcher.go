package realtime

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Dispatcher struct {
	registry *Registry
	log      logrus.FieldLogger
}

func NewDispatcher(registry *Registry, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// Dispatch pushes payload to userID's connection. An offline user yields
// (false, nil); err is only set when the connection refused the emit.
func (d *Dispatcher) Dispatch(userID int64, event string, payload any) (bool, error) {
	conn, ok := d.registry.Lookup(userID)
	if !ok {
		d.log.WithFields(logrus.Fields{"user_id": userID, "event": event}).Debug("user offline, push skipped")
		return false, nil
	}

	if err := conn.Emit(event, payload); err != nil {
		return false, errors.Wrapf(err, "realtime.Dispatch %s", event)
	}
	return true, nil
}

func (d *Dispatcher) Online(userID int64) bool {
	return d.registry.Online(userID)
}
