// Package sse streams catalog change events to browsers over Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event is one SSE message.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Wire names for catalog events.
var eventTypes = map[string]string{
	"inserted": "book.inserted",
	"deleted":  "book.deleted",
	"sorted":   "catalog.sorted",
	"loaded":   "catalog.loaded",
	"reloaded": "catalog.reloaded",
}

// UpdatedEvent is emitted at most once per throttle window after any change.
const UpdatedEvent = "catalog.updated"

type catalogChange struct {
	kind  string
	title string
}

// Broker fans events out to subscribers.
//
// One goroutine owns the subscriber set and the throttle clock; every public
// method talks to it over channels.
type Broker struct {
	throttle time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	changeCh      chan catalogChange
	countCh       chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. throttle bounds how often catalog.updated is sent.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	b := &Broker{
		throttle:      throttle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		changeCh:      make(chan catalogChange, 256),
		countCh:       make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.loop()
	return b
}

func encode(e Event) ([]byte, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", e.Type, payload), nil
}

func (b *Broker) loop() {
	defer close(b.stopped)

	subs := make(map[chan []byte]struct{})
	var lastUpdated time.Time

	send := func(e Event) {
		msg, err := encode(e)
		if err != nil {
			return
		}
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				// slow subscriber, drop
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range subs {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			subs[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case e := <-b.publishCh:
			send(e)

		case c := <-b.changeCh:
			typ, ok := eventTypes[c.kind]
			if !ok {
				continue
			}
			data := map[string]string{}
			if c.title != "" {
				data["title"] = c.title
			}
			send(Event{Type: typ, Data: data})

			if now := time.Now(); now.Sub(lastUpdated) >= b.throttle {
				lastUpdated = now
				send(Event{Type: UpdatedEvent, Data: map[string]string{}})
			}

		case resp := <-b.countCh:
			resp <- len(subs)
		}
	}
}

// Close stops the broker and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a new subscriber.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes ch and closes it.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of subscribers.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countCh <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an arbitrary event to all subscribers.
func (b *Broker) Publish(e Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- e:
	case <-b.stopped:
	}
}

// PublishCatalogEvent announces a catalog change. Unknown kinds are ignored.
func (b *Broker) PublishCatalogEvent(kind, title string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.changeCh <- catalogChange{kind: kind, title: title}:
	case <-b.stopped:
	}
}

// ServeHTTP streams events until the client goes away (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
