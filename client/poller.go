package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/stellar/starlight/walletclient/event"
)

var errNoBody = errors.New("agent responded without a json body")

// Subscription is a running poll loop started with Client.Subscribe.
type Subscription struct {
	updates  chan Update
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu  sync.Mutex
	err error
}

// Updates returns the channel updates are delivered on. The channel is
// closed when the subscription ends.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Unsubscribe asks the poll loop to stop before its next request. A request
// already in flight is completed and its updates are delivered.
func (s *Subscription) Unsubscribe() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// Done is closed when the subscription has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that ended the subscription. It is nil while the
// subscription runs, and after it ends because of Unsubscribe or a lost
// session.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.updates)
	close(s.done)
}

// Subscribe starts polling the agent for updates from the client's cursor.
// Every batch of updates is applied to the client state before the updates
// of the batch are delivered, so a Snapshot taken while handling an update
// includes it. The subscriber must keep receiving from Updates, or the poll
// loop blocks.
//
// The subscription ends when Unsubscribe is called, when ctx is done, when
// the session is lost, or when an update cannot be applied.
func (c *Client) Subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		updates: make(chan Update, c.updateBuffer),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if !c.polling.CompareAndSwap(false, true) {
		sub.finish(ErrSubscribed)
		return sub
	}
	go func() {
		err := c.poll(ctx, sub)
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.WithError(err).Error("poller stopped")
		}
		c.polling.Store(false)
		sub.finish(err)
	}()
	return sub
}

func (c *Client) poll(ctx context.Context, sub *Subscription) error {
	for {
		select {
		case <-sub.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.mu.RLock()
		from := c.state.ClientState.From
		epoch := c.epoch
		c.mu.RUnlock()

		log := c.log.WithField("from", from)
		started := time.Now()
		r := c.post(ctx, "/api/updates", struct{ From uint64 }{From: from})
		log = log.WithField("request_id", r.RequestID)

		if r.Status == http.StatusUnauthorized {
			c.metrics.ObservePoll(r.Check(), started)
			c.metrics.ObserveLogout()
			log.Info("session lost, stopping poller")
			return nil
		}

		err := r.Check()
		if err == nil && len(r.Body) == 0 {
			err = fmt.Errorf("%s: %w", r.Path, errNoBody)
		}
		c.metrics.ObservePoll(err, started)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Warnf("polling for updates, retrying in %v", c.backoff)
			backoff := time.NewTimer(c.backoff)
			select {
			case <-sub.stop:
				backoff.Stop()
				return nil
			case <-ctx.Done():
				backoff.Stop()
				return ctx.Err()
			case <-backoff.C:
			}
			continue
		}

		events, err := event.DecodeBatch(r.Body)
		if err != nil {
			return fmt.Errorf("decoding updates from %d: %w", from, err)
		}
		if len(events) == 0 {
			continue
		}

		updates, next, err := c.applyBatch(epoch, events)
		if err != nil {
			return fmt.Errorf("applying updates from %d: %w", from, err)
		}
		c.metrics.ObserveBatch(len(events), next)
		log.WithField("events", len(events)).WithField("next", next).Debug("applied updates")

		for _, u := range updates {
			select {
			case sub.updates <- u:
				c.metrics.ObserveUpdate(string(u.Type()))
			case <-sub.stop:
				// The batch is committed, and Snapshot has it.
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
