package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []Event
	bus.Subscribe("ticket:create", func(e Event) {
		got = append(got, e)
	})

	bus.Publish("ticket:create", "payload")
	bus.Publish("ticket:remove", "other")

	require.Len(t, got, 1)
	assert.Equal(t, "ticket:create", got[0].Event)
	assert.Equal(t, "payload", got[0].Data)
}

func TestEventBusChannelDelivery(t *testing.T) {
	bus := NewEventBus()

	bus.Publish("ticket:update", 42)

	select {
	case e := <-bus.SubscribeCh():
		assert.Equal(t, "ticket:update", e.Event)
		assert.Equal(t, 42, e.Data)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestEventBusPublishNeverBlocks(t *testing.T) {
	bus := NewEventBus()

	// overflow the buffer; every publish must return immediately
	for i := 0; i < 250; i++ {
		bus.Publish("ticket:create", i)
	}

	drained := 0
	for {
		select {
		case <-bus.SubscribeCh():
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 100, drained)
}
