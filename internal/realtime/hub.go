// Package realtime delivers change notifications for snapshot subscriptions.
package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ChannelPrefix namespaces the Redis channels used by the hub.
const ChannelPrefix = "coffeemates:"

const (
	TopicPosts = "posts"

	maxBackoff = 30 * time.Second
)

// UserTopic is notified when a profile changes.
func UserTopic(userID string) string { return "users:" + userID }

// ChatsTopic is notified when a conversation of memberID changes.
func ChatsTopic(memberID string) string { return "chats:" + memberID }

// MessagesTopic is notified when a message is added to or read in chatID.
func MessagesTopic(chatID string) string { return "messages:" + chatID }

// Event is the payload broadcast over Redis. It carries no data: receivers
// re-read the full snapshot.
type Event struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
}

// Subscription receives a signal on C whenever its topic changes. Signals
// coalesce: several changes before the receiver wakes up yield one signal.
type Subscription struct {
	Topic string
	C     <-chan struct{}

	ch   chan struct{}
	hub  *Hub
	once sync.Once
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans change notifications out to local subscribers. With a Redis client
// notifications go through Pub/Sub so every instance sees them; without one
// they stay in process.
type Hub struct {
	rdb *redis.Client
	log logrus.FieldLogger

	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// NewHub creates a hub. rdb may be nil.
func NewHub(rdb *redis.Client, log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		rdb:  rdb,
		log:  log.WithField("component", "realtime"),
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers interest in topic. The caller must Close the subscription.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan struct{}, 1)
	s := &Subscription{Topic: topic, C: ch, ch: ch, hub: h}

	h.mu.Lock()
	set, ok := h.subs[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[topic] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	subscribersGauge.Inc()

	return s
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[s.Topic]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.Topic)
	}
	subscribersGauge.Dec()
}

// Publish notifies every subscriber of topic on every instance.
func (h *Hub) Publish(ctx context.Context, topic string) error {
	publishedCounter.Inc()

	if h.rdb == nil {
		h.fanOut(topic)
		return nil
	}

	data, err := json.Marshal(Event{Topic: topic, At: time.Now().UTC()})
	if err != nil {
		return err
	}

	return h.rdb.Publish(ctx, ChannelPrefix+topic, data).Err()
}

// PublishAll publishes each topic, logging failures instead of returning them.
// A failed notification only delays the next snapshot.
func (h *Hub) PublishAll(ctx context.Context, topics ...string) {
	for _, t := range topics {
		if err := h.Publish(ctx, t); err != nil {
			h.log.WithError(err).WithField("topic", t).Error("failed to publish change")
		}
	}
}

func (h *Hub) fanOut(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[topic] {
		select {
		case s.ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}

// Run consumes Redis Pub/Sub until ctx is done, resubscribing with capped
// exponential backoff when the connection drops. Without Redis it just waits.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb == nil {
		h.log.Info("redis not configured; change notifications stay local")
		<-ctx.Done()
		return nil
	}

	backoff := time.Second

	for {
		err := h.receive(ctx, func() { backoff = time.Second })
		if ctx.Err() != nil {
			return nil
		}

		h.log.WithError(err).WithField("retry_in", backoff).Error("redis subscriber stopped")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (h *Hub) receive(ctx context.Context, onMessage func()) error {
	pubsub := h.rdb.PSubscribe(ctx, ChannelPrefix+"*")
	defer pubsub.Close()

	h.log.Infof("redis subscriber started (pattern: %s*)", ChannelPrefix)

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		onMessage()

		topic := strings.TrimPrefix(msg.Channel, ChannelPrefix)

		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil && event.Topic != "" {
			topic = event.Topic
		} else if err != nil {
			h.log.WithError(err).Warn("malformed change event")
		}

		h.fanOut(topic)
	}
}
