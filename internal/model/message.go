package model

import (
	"time"

	"github.com/google/uuid"
)

// Message statuses. QUEUED transitions exactly once to SENT or
// UNPROCESSABLE; both terminal statuses are absorbing.
const (
	StatusQueued        = "QUEUED"
	StatusSent          = "SENT"
	StatusUnprocessable = "UNPROCESSABLE"
)

// Message is a send request and its delivery record. The JSON tags double
// as the queue wire format. Parameters are snapshotted at submission,
// template changes after enqueue do not affect queued messages.
type Message struct {
	ID                 uuid.UUID         `json:"id"`
	UserID             string            `json:"userId"`
	MessageTemplateKey string            `json:"messageTemplateKey"`
	Status             string            `json:"status"`
	Parameters         map[string]string `json:"parameters"`
	RequestedTimestamp *time.Time        `json:"requestedTimestamp"`
	SentTimestamp      *time.Time        `json:"sentTimestamp"`
}
