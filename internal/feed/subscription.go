package feed

import (
	"context"
	"fmt"
	"sync"

	"safi-kitchen/internal/kafka"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"
)

// AlertFunc is the best-effort per-event side effect (the dashboard's new
// order chime/banner). Whatever it does, its failure is swallowed.
type AlertFunc func(*models.Order)

// Subscription owns one realtime channel feeding one projection. Each mounted
// view opens its own subscription under its own consumer group; nothing is
// shared or multiplexed. Close releases the channel and must run on every
// exit path.
type Subscription struct {
	consumer   *kafka.Consumer
	projection *Projection
	alert      AlertFunc
	log        *logger.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Open creates the consumer group and starts delivering events into the
// projection until Close or ctx cancellation.
func Open(ctx context.Context, brokers []string, groupID string, projection *Projection, alert AlertFunc, log *logger.Logger) (*Subscription, error) {
	consumer, err := kafka.NewOrderConsumer(brokers, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to open subscription: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		consumer:   consumer,
		projection: projection,
		alert:      alert,
		log:        log,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		err := consumer.ConsumeOrders(subCtx, sub.deliver)
		if err != nil && err != context.Canceled {
			// Channel errors are not distinguished from a clean unsubscribe;
			// no reconnection is attempted.
			log.Warn("FEED", fmt.Sprintf("Subscription %s ended: %v", groupID, err))
		}
	}()

	log.LogProcess("FEED", fmt.Sprintf("Realtime subscription %s opened", groupID))
	return sub, nil
}

func (s *Subscription) deliver(order *models.Order) error {
	s.projection.ApplyInsert(order)
	s.log.LogOrder("REALTIME", order.ID, "Merged realtime insert into projection")

	if s.alert != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Debug("FEED", fmt.Sprintf("Alert side effect failed: %v", r))
				}
			}()
			s.alert(order)
		}()
	}
	return nil
}

// Close tears the subscription down. Safe to call more than once and from
// deferred paths.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		if err := s.consumer.Close(); err != nil {
			s.log.Warn("FEED", "Error closing subscription consumer: "+err.Error())
		}
		s.log.LogProcess("FEED", "Realtime subscription closed")
	})
}
