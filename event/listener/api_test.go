package listener

import (
	"context"
	"testing"

	"marketplace-messenger/event"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApi(t *testing.T) {
	log, hook := test.NewNullLogger()
	deliveries := make(chan event.Delivery, 1)
	deliveries <- event.Delivery{Queue: event.ApiQueue, Action: "user.updated", Data: []byte("{}")}
	close(deliveries)

	Api(context.Background(), deliveries, log)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, "user.updated", entry.Data["action"])
	assert.Equal(t, event.ApiQueue, entry.Data["queue"])
}

func TestApi_StopsOnCancel(t *testing.T) {
	log, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	Api(ctx, make(chan event.Delivery), log)
	assert.Empty(t, hook.AllEntries())
}
