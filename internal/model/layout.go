package model

import "time"

// EmailLayout is the outer email body template. Content references its
// inputs as placeholders; every placeholder must be declared in Inputs,
// which is enforced at creation time.
type EmailLayout struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     int      `json:"version"`
	Status      string   `json:"status"`
	Content     string   `json:"content"`
	Inputs      []string `json:"inputs"`

	CreatedTimestamp     time.Time `json:"createdTimestamp"`
	LastUpdatedTimestamp time.Time `json:"lastUpdatedTimestamp"`
}
