package domain

import (
	"strings"
	"time"
)

// EventType is the kind of a clock event.
type EventType string

const (
	EventEntry    EventType = "ENTRY"
	EventBreakOut EventType = "BREAK_OUT"
	EventBreakIn  EventType = "BREAK_IN"
	EventExit     EventType = "EXIT"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventEntry, EventBreakOut, EventBreakIn, EventExit:
		return true
	}
	return false
}

// IsBreak reports whether t is a break marker. Break events are modelled but
// never produced by the entry/exit toggle.
func (t EventType) IsBreak() bool {
	return t == EventBreakOut || t == EventBreakIn
}

// EventStatus represents the lifecycle state of a clock event.
type EventStatus string

const (
	StatusOpen     EventStatus = "OPEN"
	StatusClosed   EventStatus = "CLOSED"
	StatusPending  EventStatus = "PENDING"
	StatusRejected EventStatus = "REJECTED"
)

// validTransitions defines the allowed status transitions.
// CLOSED -> OPEN happens when the exit closing an entry is deleted.
var validTransitions = map[EventStatus][]EventStatus{
	StatusOpen:    {StatusClosed},
	StatusClosed:  {StatusOpen},
	StatusPending: {StatusClosed, StatusRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Countable reports whether events in this status take part in the
// entry/exit toggle. Pending and rejected events never do.
func (s EventStatus) Countable() bool {
	return s != StatusPending && s != StatusRejected
}

// JustificationData is the worker's request attached to a manual event.
// It is never modified after submission.
type JustificationData struct {
	Reason      string    `json:"reason" bson:"reason"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	RequestedAt time.Time `json:"requested_at" bson:"requested_at"`
}

// ClockEvent is a single clock-in/clock-out record.
type ClockEvent struct {
	ID            string             `json:"id" bson:"_id"`
	ShiftCode     string             `json:"shift_code" bson:"shift_code"`
	WorkerID      string             `json:"worker_id" bson:"worker_id"`
	WorkerName    string             `json:"worker_name" bson:"worker_name"`
	Timestamp     time.Time          `json:"timestamp" bson:"timestamp"`
	EventType     EventType          `json:"event_type" bson:"event_type"`
	LocationLabel string             `json:"location_label" bson:"location_label"`
	SiteID        string             `json:"site_id,omitempty" bson:"site_id,omitempty"`
	SectorID      string             `json:"sector_id,omitempty" bson:"sector_id,omitempty"`
	Note          string             `json:"note,omitempty" bson:"note,omitempty"`
	ValidatedBy   string             `json:"validated_by,omitempty" bson:"validated_by,omitempty"`
	IsManual      bool               `json:"is_manual" bson:"is_manual"`
	Status        EventStatus        `json:"status" bson:"status"`
	PairedEventID string             `json:"paired_event_id,omitempty" bson:"paired_event_id,omitempty"`
	Justification *JustificationData `json:"justification,omitempty" bson:"justification,omitempty"`
}

// Clone returns a deep copy of e.
func (e *ClockEvent) Clone() *ClockEvent {
	if e == nil {
		return nil
	}
	c := *e
	if e.Justification != nil {
		j := *e.Justification
		c.Justification = &j
	}
	return &c
}

// AppendNote adds a line to the event note.
func (e *ClockEvent) AppendNote(line string) {
	if e.Note == "" {
		e.Note = line
		return
	}
	e.Note = e.Note + "\n" + line
}

const locationSeparator = " - "

// LocationLabel composes the display label stored on events for backward
// compatibility with records that only carry the label.
func LocationLabel(siteName, sectorName string) string {
	return siteName + locationSeparator + sectorName
}

// SectorFromLabel returns the part of a composite label after the first
// separator, or the whole label when there is none.
func SectorFromLabel(label string) string {
	if _, after, ok := strings.Cut(label, locationSeparator); ok {
		return after
	}
	return label
}
