// Package cleanup deletes transient chat messages after a delay.
package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-telegram/bot"
	"go.uber.org/atomic"
)

const (
	DefaultDelay  = 5 * time.Minute
	deleteTimeout = 30 * time.Second
)

type Deleter interface {
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// Scheduler arms one timer per Schedule call. Timers are grouped by owner, the card the
// messages belong to, so that closing a card can settle its pending deletions at once.
type Scheduler struct {
	deleter Deleter
	clock   clock.Clock
	delay   time.Duration

	mu      sync.Mutex
	owners  map[int][]*job
	stopped bool
	pending *atomic.Int64
	wg      sync.WaitGroup
}

type job struct {
	timer      *clock.Timer
	chatID     int64
	messageIDs []int
}

func NewScheduler(deleter Deleter, clk clock.Clock, delay time.Duration) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		deleter: deleter,
		clock:   clk,
		delay:   delay,
		owners:  make(map[int][]*job),
		pending: atomic.NewInt64(0),
	}
}

// Schedule deletes messageIDs from chatID once the delay has passed. Deletion failures are
// ignored. It never blocks.
func (s *Scheduler) Schedule(owner int, chatID int64, messageIDs []int) {
	ids := make([]int, 0, len(messageIDs))
	for _, id := range messageIDs {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	j := &job{chatID: chatID, messageIDs: ids}
	j.timer = s.clock.AfterFunc(s.delay, func() {
		s.fire(owner, j)
	})
	s.owners[owner] = append(s.owners[owner], j)
	s.pending.Inc()
	slog.Debug("Scheduled message cleanup", "owner", owner, "chatID", chatID, "messageIDs", ids, "delay", s.delay)
}

// Cancel drops the pending deletions of owner and returns how many timers were stopped.
func (s *Scheduler) Cancel(owner int) int {
	return len(s.detach(owner))
}

// Flush performs the pending deletions of owner right away.
func (s *Scheduler) Flush(ctx context.Context, owner int) {
	for _, j := range s.detach(owner) {
		s.deleteAll(ctx, j.chatID, j.messageIDs)
	}
}

func (s *Scheduler) Pending() int64 {
	return s.pending.Load()
}

// Stop disarms every timer and waits for deletions that are already running.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	for owner, jobs := range s.owners {
		for _, j := range jobs {
			j.timer.Stop()
			s.pending.Dec()
		}
		delete(s.owners, owner)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *Scheduler) detach(owner int) []*job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := s.owners[owner]
	delete(s.owners, owner)
	for _, j := range jobs {
		j.timer.Stop()
		s.pending.Dec()
	}
	return jobs
}

func (s *Scheduler) fire(owner int, fired *job) {
	s.mu.Lock()
	jobs := s.owners[owner]
	idx := -1
	for i, j := range jobs {
		if j == fired {
			idx = i
			break
		}
	}
	if idx < 0 {
		// cancelled or flushed while the timer was firing
		s.mu.Unlock()
		return
	}
	jobs = append(jobs[:idx], jobs[idx+1:]...)
	if len(jobs) == 0 {
		delete(s.owners, owner)
	} else {
		s.owners[owner] = jobs
	}
	s.pending.Dec()
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	s.deleteAll(ctx, fired.chatID, fired.messageIDs)
}

func (s *Scheduler) deleteAll(ctx context.Context, chatID int64, messageIDs []int) {
	for _, id := range messageIDs {
		if _, err := s.deleter.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: id,
		}); err != nil {
			slog.Debug("Failed to delete message", "error", err, "chatID", chatID, "messageID", id)
		}
	}
}
