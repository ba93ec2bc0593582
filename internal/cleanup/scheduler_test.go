package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deletion struct {
	chatID    int64
	messageID int
}

type fakeDeleter struct {
	mu      sync.Mutex
	deleted []deletion
	failOn  map[int]bool
}

func (f *fakeDeleter) DeleteMessage(_ context.Context, params *bot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, deletion{chatID: params.ChatID.(int64), messageID: params.MessageID})
	if f.failOn[params.MessageID] {
		return false, errors.New("Bad Request: message to delete not found")
	}
	return true, nil
}

func (f *fakeDeleter) ids() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.deleted))
	for i, d := range f.deleted {
		out[i] = d.messageID
	}
	return out
}

func TestScheduleDeletesAfterDelay(t *testing.T) {
	deleter := &fakeDeleter{}
	mock := clock.NewMock()
	s := NewScheduler(deleter, mock, 300*time.Second)

	s.Schedule(1, 42, []int{10, 11})
	assert.Equal(t, int64(1), s.Pending())

	mock.Add(299 * time.Second)
	assert.Empty(t, deleter.ids())

	mock.Add(time.Second)
	require.Eventually(t, func() bool { return len(deleter.ids()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{10, 11}, deleter.ids())
	assert.Equal(t, int64(0), s.Pending())
}

func TestScheduleIgnoresDeletionFailures(t *testing.T) {
	deleter := &fakeDeleter{failOn: map[int]bool{10: true}}
	mock := clock.NewMock()
	s := NewScheduler(deleter, mock, time.Minute)

	s.Schedule(1, 42, []int{10, 11})
	mock.Add(time.Minute)

	require.Eventually(t, func() bool { return len(deleter.ids()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduleSkipsZeroIDs(t *testing.T) {
	s := NewScheduler(&fakeDeleter{}, clock.NewMock(), time.Minute)

	s.Schedule(1, 42, []int{0, 0})

	assert.Equal(t, int64(0), s.Pending())
}

func TestCancel(t *testing.T) {
	deleter := &fakeDeleter{}
	mock := clock.NewMock()
	s := NewScheduler(deleter, mock, time.Minute)

	s.Schedule(1, 42, []int{10})
	s.Schedule(1, 42, []int{11})
	s.Schedule(2, 42, []int{20})

	assert.Equal(t, 2, s.Cancel(1))
	assert.Equal(t, int64(1), s.Pending())

	mock.Add(time.Minute)
	require.Eventually(t, func() bool { return len(deleter.ids()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{20}, deleter.ids())
}

func TestFlushDeletesImmediately(t *testing.T) {
	deleter := &fakeDeleter{}
	mock := clock.NewMock()
	s := NewScheduler(deleter, mock, time.Minute)

	s.Schedule(1, 42, []int{10, 11})
	s.Flush(context.Background(), 1)

	assert.Equal(t, []int{10, 11}, deleter.ids())
	assert.Equal(t, int64(0), s.Pending())

	mock.Add(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, deleter.ids(), 2)
}

func TestStop(t *testing.T) {
	deleter := &fakeDeleter{}
	mock := clock.NewMock()
	s := NewScheduler(deleter, mock, time.Minute)

	s.Schedule(1, 42, []int{10})
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, int64(0), s.Pending())

	s.Schedule(2, 42, []int{11})
	assert.Equal(t, int64(0), s.Pending())

	mock.Add(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, deleter.ids())
}
