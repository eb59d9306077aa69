package domain

import "time"

// Item is an element of a list section. Identifiers are unique within their list
// and never change once assigned.
type Item[T any] interface {
	ItemID() int64
	WithItemID(id int64) T
}

// ListSection is the full content of one list step, written back as a whole.
type ListSection interface {
	Step() StepKey
	Len() int
}

// Meter is a utility meter reading.
type Meter struct {
	ID                  int64    `json:"id"`
	ReadingDate         string   `json:"readingDate"`
	MeterType           string   `json:"meterType"`
	CustomMeterType     string   `json:"customMeterType,omitempty"`
	MeterLocation       string   `json:"meterLocation"`
	CustomMeterLocation string   `json:"customMeterLocation,omitempty"`
	MeterNumber         string   `json:"meterNumber"`
	MeterReading        string   `json:"meterReading"`
	Photos              []string `json:"photos,omitempty"`
}

func (m Meter) ItemID() int64 { return m.ID }

func (m Meter) WithItemID(id int64) Meter {
	m.ID = id
	return m
}

// Key is a set of handed-over keys.
type Key struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	CustomType string `json:"customType,omitempty"`
	Quantity   string `json:"quantity"`
}

func (k Key) ItemID() int64 { return k.ID }

func (k Key) WithItemID(id int64) Key {
	k.ID = id
	return k
}

// Photo documents a room.
type Photo struct {
	ID          int64      `json:"id"`
	Room        string     `json:"room"`
	CustomRoom  string     `json:"customRoom,omitempty"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
}

func (p Photo) ItemID() int64 { return p.ID }

func (p Photo) WithItemID(id int64) Photo {
	p.ID = id
	return p
}

// Agreement is a free-form arrangement between the parties.
type Agreement struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

func (a Agreement) ItemID() int64 { return a.ID }

func (a Agreement) WithItemID(id int64) Agreement {
	a.ID = id
	return a
}

type (
	Meters     []Meter
	Keys       []Key
	Photos     []Photo
	Agreements []Agreement
)

func (Meters) Step() StepKey     { return StepMeters }
func (Keys) Step() StepKey       { return StepKeys }
func (Photos) Step() StepKey     { return StepPhotos }
func (Agreements) Step() StepKey { return StepAgreements }

func (l Meters) Len() int     { return len(l) }
func (l Keys) Len() int       { return len(l) }
func (l Photos) Len() int     { return len(l) }
func (l Agreements) Len() int { return len(l) }

// NextItemID picks an identifier for a new list item: the current time in
// milliseconds, bumped past every identifier already in the list. Zero is
// never returned since it marks an unassigned item.
func NextItemID[T Item[T]](items []T, now time.Time) int64 {
	id := max(now.UnixMilli(), 1)
	for _, item := range items {
		if item.ItemID() >= id {
			id = item.ItemID() + 1
		}
	}
	return id
}
