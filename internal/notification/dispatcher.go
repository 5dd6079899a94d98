package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

// Dispatcher drains the redis queue, persists each event and pushes it
// to live subscribers.
type Dispatcher struct {
	redis *redis.Client
	repo  Repository
	hub   *Hub
}

func NewDispatcher(rdb *redis.Client, repo Repository, hub *Hub) *Dispatcher {
	return &Dispatcher{redis: rdb, repo: repo, hub: hub}
}

// Enqueue pushes one event onto the queue. Delivery happens on the
// dispatcher goroutine.
func (d *Dispatcher) Enqueue(ctx context.Context, event Event) error {
	event.Created = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal notification event: %v", err)
		return err
	}

	if err := d.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue notification for %s: %v", event.UserID, err)
		return err
	}

	return nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	logger.Info("Notification dispatcher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification dispatcher stopped")
			return
		default:
			d.processNext(ctx)
		}
	}
}

func (d *Dispatcher) processNext(ctx context.Context) {
	result, err := d.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	event.Tries++
	if err := d.deliver(ctx, event); err != nil {
		logger.Errorf("Failed to deliver %s notification to %s: %v", event.Type, event.UserID, err)

		if event.Tries < maxTries {
			time.Sleep(time.Second)
			data, _ := json.Marshal(event)
			d.redis.LPush(context.Background(), queueKey, data)
		} else {
			logger.Errorf("Notification for %s failed after %d attempts", event.UserID, maxTries)
			d.saveFailed(event, err)
			metrics.RecordNotification(string(event.Type), "failed")
		}
		return
	}

	metrics.RecordNotification(string(event.Type), "delivered")
	d.updateQueueLength(ctx)
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) error {
	n, err := d.repo.Create(ctx, event.UserID, event.Type, event.Title, event.Message)
	if err != nil {
		return err
	}

	d.hub.Publish(*n)
	return nil
}

func (d *Dispatcher) saveFailed(event Event, err error) {
	failed := map[string]interface{}{
		"event": event,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	d.redis.LPush(context.Background(), failedQueueKey, data)
}

func (d *Dispatcher) updateQueueLength(ctx context.Context) {
	length, err := d.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return
	}
	metrics.SetNotificationQueueLength(float64(length))
}

func (d *Dispatcher) QueueLength(ctx context.Context) int64 {
	length, _ := d.redis.LLen(ctx, queueKey).Result()
	return length
}

func (d *Dispatcher) Close() error {
	return d.redis.Close()
}
