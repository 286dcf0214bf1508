package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"chat-relay/domain"
	"chat-relay/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestEngine_LoadTest hammers the engine from many concurrent sessions and
// checks the single-serialization-point guarantee: every observer sees the
// exact same global order, with nothing lost.
func TestEngine_LoadTest(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.DiscardHandler) // logs off for throughput

	messages := &fakeMessages{}
	registry := NewRegistry()
	engine := NewEngine(log, registry, messages, observability.NewMonitor(), 1000)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = engine.Run(ctx) }()

	observerA, observerB := &fakeConn{}, &fakeConn{}
	_, err := engine.Attach(ctx, uuid.New(), domain.Identity{Username: "observer-a"}, observerA)
	req.NoError(err)
	_, err = engine.Attach(ctx, uuid.New(), domain.Identity{Username: "observer-b"}, observerB)
	req.NoError(err)

	const senders = 10
	const perSender = 50

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(sender int) {
			defer wg.Done()
			identity := domain.Identity{
				UserID:   fmt.Sprintf("user-%d", sender),
				Username: fmt.Sprintf("sender-%d", sender),
			}
			for i := 0; i < perSender; i++ {
				if err := engine.Submit(ctx, identity, fmt.Sprintf("msg %d-%d", sender, i)); err != nil {
					t.Error(err)
					return
				}
			}
		}(s)
	}
	wg.Wait()

	// Nothing lost, identical global order for every observer
	req.Len(observerA.contents(), senders*perSender)
	req.Equal(observerA.contents(), observerB.contents())

	// And per-sender submissions kept their relative order
	positions := make(map[string]int)
	for _, content := range observerA.contents() {
		var sender, seq int
		_, err := fmt.Sscanf(content, "msg %d-%d", &sender, &seq)
		req.NoError(err)
		key := fmt.Sprintf("sender-%d", sender)
		req.Equal(positions[key], seq)
		positions[key]++
	}
}
