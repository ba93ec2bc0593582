// Package shift tells working hours from off-hours.
package shift

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

var ErrInvalidClock = errors.New("invalid time of day")

// Window is an off-hours interval [Start, End) of the local day. It wraps past midnight
// when Start is later than End. Equal bounds describe an empty window.
type Window struct {
	Start    time.Duration
	End      time.Duration
	Location *time.Location
	clock    clock.Clock
}

func ParseWindow(start, end, timezone string, clk clock.Clock) (*Window, error) {
	from, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := parseClock(end)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Window{
		Start:    from,
		End:      to,
		Location: loc,
		clock:    clk,
	}, nil
}

func (w *Window) IsNight() bool {
	return w.Contains(w.clock.Now())
}

func (w *Window) Contains(t time.Time) bool {
	local := t.In(w.Location)
	tod := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second

	switch {
	case w.Start == w.End:
		return false
	case w.Start < w.End:
		return tod >= w.Start && tod < w.End
	default:
		return tod >= w.Start || tod < w.End
	}
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidClock, value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
