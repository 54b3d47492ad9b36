package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pinged struct{ n int }

func (pinged) Topic() Topic { return "pinged" }

type ponged struct{}

func (ponged) Topic() Topic { return "ponged" }

func TestPublish_OrderedDelivery(t *testing.T) {
	bus := New()
	var got []string
	bus.Subscribe("pinged", func(Event) { got = append(got, "first") })
	bus.Subscribe("pinged", func(Event) { got = append(got, "second") })
	bus.Subscribe("ponged", func(Event) { got = append(got, "other") })

	bus.Publish(pinged{})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestOn_Typed(t *testing.T) {
	bus := New()
	var total int
	On(bus, func(e pinged) { total += e.n })

	bus.Publish(pinged{n: 2})
	bus.Publish(pinged{n: 3})
	bus.Publish(ponged{})
	assert.Equal(t, 5, total)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	bus := New()
	calls := 0
	sub := On(bus, func(pinged) { calls++ })
	keep := On(bus, func(pinged) { calls += 10 })

	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish(pinged{})

	assert.Equal(t, 10, calls)
	assert.Equal(t, 1, bus.Subscribers("pinged"))

	keep.Unsubscribe()
	assert.Equal(t, 0, bus.Subscribers("pinged"))

	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := New()
	var calls []string
	var second *Subscription
	bus.Subscribe("pinged", func(Event) {
		calls = append(calls, "first")
		second.Unsubscribe()
	})
	second = bus.Subscribe("pinged", func(Event) { calls = append(calls, "second") })

	// The snapshot taken at publish time still includes the second handler.
	bus.Publish(pinged{})
	bus.Publish(pinged{})
	assert.Equal(t, []string{"first", "second", "first"}, calls)
}
