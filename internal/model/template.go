package model

import "time"

// Declared parameter types accepted by the message validator. Any
// undeclared type behaves like String.
const (
	ParameterTypeString   = "String"
	ParameterTypeNumber   = "Number"
	ParameterTypeDate     = "Date"
	ParameterTypeDateTime = "DateTime"
)

// LocalizedString is one locale variant of a template string.
type LocalizedString struct {
	Language string `json:"language"`
	Template string `json:"template"`
}

// LocalizedStringSet holds the locale variants of a single template
// string. Order is the order variants were added; no uniqueness is
// enforced beyond one entry per locale through Upsert.
type LocalizedStringSet []LocalizedString

// Get returns the template text for an exact language tag match.
func (s LocalizedStringSet) Get(language string) (string, bool) {
	for _, ls := range s {
		if ls.Language == language {
			return ls.Template, true
		}
	}
	return "", false
}

// Upsert updates the entry for language if present, else appends one.
func (s LocalizedStringSet) Upsert(language, template string) LocalizedStringSet {
	for i := range s {
		if s[i].Language == language {
			s[i].Template = template
			return s
		}
	}
	return append(s, LocalizedString{Language: language, Template: template})
}

// SmsFormat carries the localized SMS message body.
type SmsFormat struct {
	Message LocalizedStringSet `json:"message"`
}

// ContentSlot is a named, independently localized fragment of an email
// body, inserted into the layout at the placeholder matching LayoutInput.
type ContentSlot struct {
	LayoutInput string             `json:"layoutInput"`
	Template    LocalizedStringSet `json:"template"`
}

// EmailFormat carries the localized subject and the ordered content slots
// of an email rendition.
type EmailFormat struct {
	Subject  LocalizedStringSet `json:"subject"`
	Contents []ContentSlot      `json:"contents"`
}

// DedupedContents returns the content slots deduplicated by layout input
// name. The last slot written for a name wins; slots keep the position of
// the first occurrence of their name, so the operation is idempotent.
func (f *EmailFormat) DedupedContents() []ContentSlot {
	if f == nil {
		return nil
	}
	index := make(map[string]int, len(f.Contents))
	deduped := make([]ContentSlot, 0, len(f.Contents))
	for _, slot := range f.Contents {
		if i, ok := index[slot.LayoutInput]; ok {
			deduped[i] = slot
			continue
		}
		index[slot.LayoutInput] = len(deduped)
		deduped = append(deduped, slot)
	}
	return deduped
}

// Template is a notification template addressed by key. Upserts overwrite
// the same row; the version field is carried but no append-only history is
// kept.
type Template struct {
	Key         string            `json:"key"`
	Version     int               `json:"version"`
	Status      string            `json:"status"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
	LayoutKey   string            `json:"emailLayoutKey"`
	Sms         *SmsFormat        `json:"smsFormat"`
	Email       *EmailFormat      `json:"emailFormat"`

	CreatedTimestamp     time.Time `json:"createdTimestamp"`
	LastUpdatedTimestamp time.Time `json:"lastUpdatedTimestamp"`
}
