package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedStringSetUpsert(t *testing.T) {
	var set LocalizedStringSet

	set = set.Upsert("en", "hello")
	set = set.Upsert("es", "hola")
	assert.Len(t, set, 2)

	set = set.Upsert("en", "hi")
	assert.Len(t, set, 2)

	text, ok := set.Get("en")
	assert.True(t, ok)
	assert.Equal(t, "hi", text)

	_, ok = set.Get("fr")
	assert.False(t, ok)
}

func TestDedupedContents(t *testing.T) {
	format := &EmailFormat{
		Contents: []ContentSlot{
			{LayoutInput: "body", Template: LocalizedStringSet{{Language: "en", Template: "first"}}},
			{LayoutInput: "footer", Template: LocalizedStringSet{{Language: "en", Template: "foot"}}},
			{LayoutInput: "body", Template: LocalizedStringSet{{Language: "en", Template: "second"}}},
		},
	}

	deduped := format.DedupedContents()
	assert.Len(t, deduped, 2)

	// The last slot for a name wins, at the position of the first
	// occurrence.
	assert.Equal(t, "body", deduped[0].LayoutInput)
	text, _ := deduped[0].Template.Get("en")
	assert.Equal(t, "second", text)
	assert.Equal(t, "footer", deduped[1].LayoutInput)

	// Running the deduplication again changes nothing.
	format.Contents = deduped
	again := format.DedupedContents()
	assert.Equal(t, deduped, again)
}

func TestDedupedContentsNilFormat(t *testing.T) {
	var format *EmailFormat
	assert.Nil(t, format.DedupedContents())
}
