package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryBus(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every subscriber", func(t *testing.T) {
		bus := NewBus()
		first, stopFirst := bus.Subscribe()
		second, stopSecond := bus.Subscribe()
		defer stopFirst()
		defer stopSecond()

		bus.Publish(New(TypeBedAssigned, "nurse@example.org", map[string]int64{"bed_id": 3}))

		for _, ch := range []<-chan Event{first, second} {
			select {
			case e := <-ch:
				require.Equal(t, TypeBedAssigned, e.Type)
				require.Equal(t, "nurse@example.org", e.Actor)
				require.NotEmpty(t, e.ID)
			case <-time.After(time.Second):
				t.Fatal("event not delivered")
			}
		}
	})

	t.Run("full subscriber does not block publisher", func(t *testing.T) {
		bus := NewBus()
		_, stop := bus.Subscribe()
		defer stop()

		done := make(chan struct{})
		go func() {
			for range 250 {
				bus.Publish(New(TypeInvoicePaid, "", nil))
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publish blocked")
		}
	})

	t.Run("unsubscribe closes the channel once", func(t *testing.T) {
		bus := NewBus()
		ch, stop := bus.Subscribe()
		stop()
		stop()

		_, open := <-ch
		require.False(t, open)
	})
}
