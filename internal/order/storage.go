package order

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"order-relay-bot/pkg"
)

// Repo is the append-only journal of order transitions. It is an audit trail, the live state is
// never read back from it.
type Repo interface {
	InitSchema(ctx context.Context) error
	RecordEvent(ctx context.Context, event Event) error
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type DefaultRepo struct {
	db      execer
	builder sq.StatementBuilderType
}

func NewDefaultRepo(db execer) Repo {
	return &DefaultRepo{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const schema = `create table if not exists order_events (
	event_id       uuid primary key,
	event_type     text not null,
	card_id        bigint not null,
	chat_id        bigint not null,
	chat_slug      text not null,
	request_number text not null,
	status         text not null,
	handler        text not null default '',
	detail         text not null default '',
	created_at     timestamptz not null
);
create index if not exists order_events_card_id_idx on order_events (card_id);`

func (d *DefaultRepo) InitSchema(ctx context.Context) error {
	if _, err := d.db.Exec(ctx, schema); err != nil {
		return &pkg.ErrDBProcedure{
			Cause: "failed to create order_events table",
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) RecordEvent(ctx context.Context, event Event) error {
	query, args, err := d.insertEvent(toDBEvent(event))
	if err != nil {
		return &pkg.ErrDBProcedure{
			Cause: "failed to build query",
			Err:   err,
		}
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		return &pkg.ErrDBProcedure{
			Cause: "failed to insert order event",
			Info:  fmt.Sprintf("cardID: %d, event: %s", event.CardID, event.Type),
			Err:   err,
		}
	}
	return nil
}

func (d *DefaultRepo) insertEvent(e DBEvent) (string, []any, error) {
	return d.builder.
		Insert("order_events").
		Columns("event_id", "event_type", "card_id", "chat_id", "chat_slug", "request_number", "status", "handler", "detail", "created_at").
		Values(e.EventID, e.EventType, e.CardID, e.ChatID, e.ChatSlug, e.RequestNumber, e.Status, e.Handler, e.Detail, e.CreatedAt).
		ToSql()
}

func toDBEvent(event Event) DBEvent {
	return DBEvent{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type),
		CardID:        event.CardID,
		ChatID:        event.ChatID,
		ChatSlug:      chatSlug(event.ChatName),
		RequestNumber: event.RequestNumber,
		Status:        string(event.Status),
		Handler:       event.Handler,
		Detail:        event.Detail,
		CreatedAt:     event.CreatedAt,
	}
}

// NopRepo drops every event. It is used when no database is configured.
type NopRepo struct{}

func (NopRepo) InitSchema(context.Context) error { return nil }

func (NopRepo) RecordEvent(context.Context, Event) error { return nil }
