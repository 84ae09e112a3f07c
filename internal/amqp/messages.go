package amqp

import (
	"encoding/json"
	"time"
)

// BreakdownRefreshMessage signals that a month's transactions changed
// and its category summary snapshot must be recomputed. It carries only
// the period; the worker reads the data from the database.
type BreakdownRefreshMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBreakdownRefreshMessage creates a refresh message for a period
func NewBreakdownRefreshMessage(year, month int) *BreakdownRefreshMessage {
	return &BreakdownRefreshMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BreakdownRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BreakdownRefreshMessageFromJSON creates a message from JSON bytes
func BreakdownRefreshMessageFromJSON(data []byte) (*BreakdownRefreshMessage, error) {
	var msg BreakdownRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
