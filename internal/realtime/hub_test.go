package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func received(s *Subscription) bool {
	select {
	case <-s.C:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestHub_LocalFanOut(t *testing.T) {
	h := NewHub(nil, nil)
	posts := h.Subscribe(TopicPosts)
	defer posts.Close()
	chats := h.Subscribe(ChatsTopic("user_mia"))
	defer chats.Close()

	require.NoError(t, h.Publish(context.Background(), TopicPosts))

	assert.True(t, received(posts))
	assert.False(t, received(chats))
}

func TestHub_Coalesces(t *testing.T) {
	h := NewHub(nil, nil)
	s := h.Subscribe(TopicPosts)
	defer s.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Publish(context.Background(), TopicPosts))
	}

	assert.True(t, received(s))
	assert.False(t, received(s))
}

func TestHub_Close(t *testing.T) {
	h := NewHub(nil, nil)
	s := h.Subscribe(MessagesTopic("hq_user_mia"))
	s.Close()
	s.Close()

	require.NoError(t, h.Publish(context.Background(), MessagesTopic("hq_user_mia")))
	assert.False(t, received(s))

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.Empty(t, h.subs)
}

func TestHub_RunWithoutRedis(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls, last int32

	for i := int32(1); i <= 5; i++ {
		i := i
		d.Call(func() {
			atomic.AddInt32(&calls, 1)
			atomic.StoreInt32(&last, i)
		})
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 5, atomic.LoadInt32(&last))
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls int32
	d.Call(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
