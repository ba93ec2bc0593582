package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const dateLayout = "02.01.2006"

// Numberer hands out per-day ticket numbers like "07 / 14.03.2025". The counter lives in
// memory only, a restart starts the day over from 01.
type Numberer struct {
	clock    clock.Clock
	location *time.Location

	mu       sync.Mutex
	lastDate string
	counter  int
}

func NewNumberer(clk clock.Clock, location *time.Location) *Numberer {
	if clk == nil {
		clk = clock.New()
	}
	if location == nil {
		location = time.Local
	}
	return &Numberer{
		clock:    clk,
		location: location,
	}
}

func (n *Numberer) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	today := n.clock.Now().In(n.location).Format(dateLayout)
	if today != n.lastDate {
		n.lastDate = today
		n.counter = 0
	}
	n.counter++

	return ticket(n.counter, today)
}

// Release takes back number if it is still the last one handed out, so that the next call
// to Next returns it again. It reports whether the ticket was taken back.
func (n *Numberer) Release(number string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.counter == 0 || number != ticket(n.counter, n.lastDate) {
		return false
	}
	n.counter--
	return true
}

func ticket(counter int, date string) string {
	return fmt.Sprintf("%02d / %s", counter, date)
}
