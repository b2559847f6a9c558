package crawler

import "time"

// EventKind classifies a status event
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventScraped   EventKind = "scraped"
	EventError     EventKind = "error"
	EventLinkError EventKind = "link_error"
	EventCompleted EventKind = "completed"
	EventNoResults EventKind = "no_results"
	EventAborted   EventKind = "aborted"
)

// eventBuffer bounds the status channel; a slow consumer blocks the crawl
const eventBuffer = 100

// Event is one status line of a run, delivered in the order it happened
type Event struct {
	Time      time.Time
	Kind      EventKind
	URL       string
	Message   string
	Processed int
	Total     int
}

// Terminal reports whether this is the last event of a run
func (e Event) Terminal() bool {
	switch e.Kind {
	case EventCompleted, EventNoResults, EventAborted:
		return true
	}
	return false
}
