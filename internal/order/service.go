package order

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
)

type Service interface {
	Open(ctx context.Context, record Record) (Record, error)
	Get(ctx context.Context, cardID int) (Record, error)
	FindByOrigin(ctx context.Context, chatID int64, messageID int) (Record, error)
	Active(ctx context.Context) []Record
	Accept(ctx context.Context, cardID int, acceptReplyID int) (Record, error)
	Reject(ctx context.Context, cardID int) (Record, error)
	Complete(ctx context.Context, cardID int) (Record, error)
	Assign(ctx context.Context, cardID int, handle string, noticeID int) (Record, error)
	ResolveAddress(ctx context.Context, cardID int, clarify bool) (Record, error)
	ApplyEdit(ctx context.Context, cardID int, text string, updateCardID int) (string, error)
	AcceptEdit(ctx context.Context, cardID int) (Record, error)
	AttachDriver(ctx context.Context, cardID int, driverID int64, messageID int) (Record, error)
	SetDriverState(ctx context.Context, cardID int, state DriverState) (Record, error)
}

// DefaultService keeps every open order in memory. Nothing survives a restart.
type DefaultService struct {
	repo  Repo
	clock clock.Clock

	mu      sync.RWMutex
	records map[int]*Record
}

func NewDefaultService(repo Repo, clk clock.Clock) Service {
	if repo == nil {
		repo = NopRepo{}
	}
	if clk == nil {
		clk = clock.New()
	}
	return &DefaultService{
		repo:    repo,
		clock:   clk,
		records: make(map[int]*Record),
	}
}

func (d *DefaultService) Open(ctx context.Context, record Record) (Record, error) {
	d.mu.Lock()
	if _, ok := d.records[record.CardID]; ok {
		d.mu.Unlock()
		return Record{}, fmt.Errorf("card %d: %w", record.CardID, ErrAlreadyExists)
	}
	now := d.clock.Now()
	record.Status = StatusNew
	record.CreatedAt = now
	record.UpdatedAt = now
	stored := record
	d.records[record.CardID] = &stored
	d.mu.Unlock()

	d.journal(ctx, EventOpened, record, "")
	return record, nil
}

func (d *DefaultService) Get(_ context.Context, cardID int) (Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	record, ok := d.records[cardID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *record, nil
}

func (d *DefaultService) FindByOrigin(_ context.Context, chatID int64, messageID int) (Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, record := range d.records {
		if record.OriginChatID == chatID && record.OriginMessageID == messageID {
			return *record, nil
		}
	}
	return Record{}, ErrNotFound
}

func (d *DefaultService) Active(_ context.Context) []Record {
	d.mu.RLock()
	records := make([]Record, 0, len(d.records))
	for _, record := range d.records {
		records = append(records, *record)
	}
	d.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CardID < records[j].CardID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records
}

func (d *DefaultService) Accept(ctx context.Context, cardID int, acceptReplyID int) (Record, error) {
	_, after, err := d.mutate(ctx, cardID, EventAccepted, "", func(r *Record) error {
		if err := r.CanDecide(); err != nil {
			return err
		}
		r.Status = StatusAccepted
		r.AcceptReplyID = acceptReplyID
		return nil
	})
	return after, err
}

func (d *DefaultService) Reject(ctx context.Context, cardID int) (Record, error) {
	_, after, err := d.mutate(ctx, cardID, EventRejected, "", func(r *Record) error {
		if err := r.CanDecide(); err != nil {
			return err
		}
		r.Status = StatusRejected
		return nil
	})
	return after, err
}

// Complete marks the order done and forgets it.
func (d *DefaultService) Complete(ctx context.Context, cardID int) (Record, error) {
	d.mu.Lock()
	record, ok := d.records[cardID]
	if !ok {
		d.mu.Unlock()
		return Record{}, ErrNotFound
	}
	delete(d.records, cardID)
	done := *record
	d.mu.Unlock()

	done.Status = StatusDone
	done.UpdatedAt = d.clock.Now()
	d.journal(ctx, EventCompleted, done, "")
	return done, nil
}

// Assign sets the handler of the order and returns the record as it was before, so that the
// caller can remove the notices the new assignment supersedes.
func (d *DefaultService) Assign(ctx context.Context, cardID int, handle string, noticeID int) (Record, error) {
	handle, err := NormalizeHandle(handle)
	if err != nil {
		return Record{}, err
	}
	before, _, err := d.mutate(ctx, cardID, EventAssigned, handle, func(r *Record) error {
		if err := r.CanAssign(); err != nil {
			return err
		}
		r.Status = StatusAccepted
		r.Handler = handle
		r.AssignNoticeID = noticeID
		r.AcceptReplyID = 0
		return nil
	})
	return before, err
}

func (d *DefaultService) ResolveAddress(ctx context.Context, cardID int, clarify bool) (Record, error) {
	detail := "skipped"
	if clarify {
		detail = "clarify"
	}
	_, after, err := d.mutate(ctx, cardID, EventAddressResolved, detail, func(r *Record) error {
		r.AddressIncomplete = false
		return nil
	})
	return after, err
}

// ApplyEdit replaces the diff baseline and returns the previous one.
func (d *DefaultService) ApplyEdit(ctx context.Context, cardID int, text string, updateCardID int) (string, error) {
	before, _, err := d.mutate(ctx, cardID, EventEdited, "", func(r *Record) error {
		r.OriginalText = text
		r.EditNotificationID = updateCardID
		return nil
	})
	if err != nil {
		return "", err
	}
	return before.OriginalText, nil
}

func (d *DefaultService) AcceptEdit(ctx context.Context, cardID int) (Record, error) {
	_, after, err := d.mutate(ctx, cardID, EventEditAccepted, "", func(r *Record) error {
		r.EditNotificationID = 0
		return nil
	})
	return after, err
}

func (d *DefaultService) AttachDriver(ctx context.Context, cardID int, driverID int64, messageID int) (Record, error) {
	_, after, err := d.mutate(ctx, cardID, EventDriverAttached, "", func(r *Record) error {
		r.DriverID = driverID
		r.DriverMessageID = messageID
		r.DriverState = DriverNone
		return nil
	})
	return after, err
}

func (d *DefaultService) SetDriverState(ctx context.Context, cardID int, state DriverState) (Record, error) {
	_, after, err := d.mutate(ctx, cardID, EventDriverState, string(state), func(r *Record) error {
		r.DriverState = state
		return nil
	})
	return after, err
}

func (d *DefaultService) mutate(ctx context.Context, cardID int, event EventType, detail string, fn func(*Record) error) (Record, Record, error) {
	d.mu.Lock()
	record, ok := d.records[cardID]
	if !ok {
		d.mu.Unlock()
		return Record{}, Record{}, ErrNotFound
	}
	before := *record
	if err := fn(record); err != nil {
		*record = before
		d.mu.Unlock()
		return before, before, err
	}
	record.UpdatedAt = d.clock.Now()
	after := *record
	d.mu.Unlock()

	d.journal(ctx, event, after, detail)
	return before, after, nil
}

func (d *DefaultService) journal(ctx context.Context, event EventType, record Record, detail string) {
	err := d.repo.RecordEvent(ctx, Event{
		Type:          event,
		CardID:        record.CardID,
		ChatID:        record.OriginChatID,
		ChatName:      record.ChatName,
		RequestNumber: record.RequestNumber,
		Status:        record.Status,
		Handler:       record.Handler,
		Detail:        detail,
		CreatedAt:     record.UpdatedAt,
	})
	if err != nil {
		slog.Error("Failed to journal order event", "error", err, "event", event, "cardID", record.CardID)
	}
}

// CanDecide reports whether the operator may still accept or reject the order.
func (r Record) CanDecide() error {
	if r.Status != StatusNew {
		return fmt.Errorf("%w: order is %s", ErrInvalidTransition, r.Status)
	}
	return nil
}

func (r Record) CanAssign() error {
	if r.Status == StatusRejected || r.Status == StatusDone {
		return fmt.Errorf("%w: order is %s", ErrInvalidTransition, r.Status)
	}
	return nil
}
