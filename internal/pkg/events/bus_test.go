package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversToAllHandlers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var got []string

	bus.Subscribe("thing.happened", func(ctx context.Context, payload any) {
		defer wg.Done()
		mu.Lock()
		got = append(got, "first:"+payload.(string))
		mu.Unlock()
	})
	bus.Subscribe("thing.happened", func(ctx context.Context, payload any) {
		defer wg.Done()
		mu.Lock()
		got = append(got, "second:"+payload.(string))
		mu.Unlock()
	})

	bus.Publish(context.Background(), "thing.happened", "hello")
	wg.Wait()

	assert.ElementsMatch(t, []string{"first:hello", "second:hello"}, got)
}

func TestBus_UnknownEventIsNoOp(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "nobody.listens", struct{}{})
	})
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe("boom", func(ctx context.Context, payload any) {
		panic("handler gone wrong")
	})
	bus.Subscribe("boom", func(ctx context.Context, payload any) {
		wg.Done()
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "boom", nil)
	})
	wg.Wait()
}

func TestBus_HandlerOutlivesCancelledContext(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe("slow", func(ctx context.Context, payload any) {
		select {
		case <-ctx.Done():
		case <-time.After(50 * time.Millisecond):
			close(done)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, "slow", nil)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was cancelled with the publishing request")
	}
}
