// internal/events/broker.go
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
)

const subscriberBuffer = 16

// Broker fans board events out to watchers. With a Redis client events go
// through pub/sub and reach watchers on every server instance; without one
// they stay in process.
type Broker struct {
	redis *redis.Client

	mu    sync.Mutex
	local map[string]map[chan *boardv1.BoardEvent]struct{}
}

func NewBroker(client *redis.Client) *Broker {
	return &Broker{
		redis: client,
		local: make(map[string]map[chan *boardv1.BoardEvent]struct{}),
	}
}

// Publish sends ev to every watcher of its project. Slow local watchers
// miss events rather than block the publisher.
func (b *Broker) Publish(ctx context.Context, ev *boardv1.BoardEvent) error {
	if b.redis != nil {
		payload, err := sonic.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if err := b.redis.Publish(ctx, Channel(ev.ProjectID), payload).Err(); err != nil {
			return fmt.Errorf("publish to %s: %w", Channel(ev.ProjectID), err)
		}
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.local[ev.ProjectID] {
		select {
		case ch <- ev:
		default:
			log.WithField("project_id", ev.ProjectID).Warn("dropping board event for slow watcher")
		}
	}
	return nil
}

// Subscribe returns a stream of the project's events. The stream is closed
// when ctx is done or the returned cancel func is called.
func (b *Broker) Subscribe(ctx context.Context, projectID string) (<-chan *boardv1.BoardEvent, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	if b.redis == nil {
		return b.subscribeLocal(ctx, cancel, projectID), cancel, nil
	}

	sub := b.redis.Subscribe(ctx, Channel(projectID))
	// wait for the confirmation so no event published after Subscribe returns is lost
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe to %s: %w", Channel(projectID), err)
	}

	out := make(chan *boardv1.BoardEvent, subscriberBuffer)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev boardv1.BoardEvent
				if err := sonic.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.WithError(err).Error("unable to parse board event")
					continue
				}
				select {
				case out <- &ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, cancel, nil
}

func (b *Broker) subscribeLocal(ctx context.Context, cancel context.CancelFunc, projectID string) <-chan *boardv1.BoardEvent {
	ch := make(chan *boardv1.BoardEvent, subscriberBuffer)

	b.mu.Lock()
	if b.local[projectID] == nil {
		b.local[projectID] = make(map[chan *boardv1.BoardEvent]struct{})
	}
	b.local[projectID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.local[projectID], ch)
		if len(b.local[projectID]) == 0 {
			delete(b.local, projectID)
		}
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// Channel is the pub/sub channel carrying a project's events
func Channel(projectID string) string {
	return "board:" + projectID + ":events"
}
