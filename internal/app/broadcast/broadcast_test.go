package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session/protocol"
)

// recordingStream collects sent envelopes.
type recordingStream struct {
	mu   sync.Mutex
	envs []*protocol.Envelope
}

func (s *recordingStream) Send(env *protocol.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = append(s.envs, env)
	return nil
}

func (s *recordingStream) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.envs)
}

// slowStream blocks longer than the broadcast timeout.
type slowStream struct{}

func (slowStream) Send(env *protocol.Envelope) error {
	time.Sleep(2 * time.Second)
	return nil
}

func TestHub_BroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := &recordingStream{}
	b := &recordingStream{}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.Broadcast(&protocol.Envelope{Type: protocol.TypeHeartbeat})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	a := &recordingStream{}
	id := hub.Subscribe(a)
	require.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(id)
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Broadcast(&protocol.Envelope{Type: protocol.TypeHeartbeat})
	assert.Equal(t, 0, a.count())
}

func TestHub_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	fast := &recordingStream{}
	hub.Subscribe(slowStream{})
	hub.Subscribe(fast)

	start := time.Now()
	hub.Broadcast(&protocol.Envelope{Type: protocol.TypeHeartbeat})
	elapsed := time.Since(start)

	assert.Equal(t, 1, fast.count())
	assert.Less(t, elapsed, 1500*time.Millisecond)
}

func TestHub_SendToSpecificSubscriber(t *testing.T) {
	hub := NewHub()
	a := &recordingStream{}
	b := &recordingStream{}
	idA := hub.Subscribe(a)
	hub.Subscribe(b)

	require.NoError(t, hub.Send(idA, &protocol.Envelope{Type: protocol.TypeWelcome}))
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 0, b.count())

	// Unknown subscription is a no-op.
	assert.NoError(t, hub.Send("missing", &protocol.Envelope{}))
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(&recordingStream{})
	hub.Subscribe(&recordingStream{})

	hub.Close()
	assert.Equal(t, 0, hub.SubscriberCount())
}
