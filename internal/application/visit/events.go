package visit

import (
	"sync"
	"time"

	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
)

type EventType string

const (
	EventDiagnosisStarted   EventType = "diagnosis.started"
	EventDiagnosisCompleted EventType = "diagnosis.completed"
	EventOrganSelected      EventType = "organ.selected"
	EventTabChanged         EventType = "tab.changed"
	EventScanCompleted      EventType = "scan.completed"
)

type Event struct {
	Type   EventType               `json:"type"`
	Organ  bodyscan.OrganID        `json:"organ,omitempty"`
	Entry  *bodyscan.HistoryEntry  `json:"entry,omitempty"`
	Issue  *bodyscan.DetectedIssue `json:"issue,omitempty"`
	Tab    string                  `json:"tab,omitempty"`
	Failed bool                    `json:"failed,omitempty"`
	At     time.Time               `json:"at"`
}

const subscriberBuffer = 16

// Broker fans events out to subscribers. A full subscriber loses the event.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of events and a cancel func that closes it.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
}

// Publish never blocks.
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close ends every subscription.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
