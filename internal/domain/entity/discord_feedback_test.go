package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotesDecodesJSONObject(t *testing.T) {
	f := DiscordFeedback{Notes: `{"stands":"A1-A4","terminal":"2E","email":"pilot@example.com"}`}
	f.ParseNotes()

	require.NotNil(t, f.ParsedDetails)
	assert.Equal(t, "A1-A4", f.ParsedDetails.Stands)
	assert.Equal(t, "2E", f.ParsedDetails.Terminal)
	assert.Equal(t, "pilot@example.com", f.ParsedDetails.Email)
}

func TestParseNotesLeavesPlainTextAlone(t *testing.T) {
	f := DiscordFeedback{Notes: "les stands A1 à A4 sont fermés"}
	f.ParseNotes()
	assert.Nil(t, f.ParsedDetails)
}

func TestParseNotesIgnoresInvalidJSON(t *testing.T) {
	f := DiscordFeedback{Notes: `{"stands": broken}`}
	f.ParseNotes()
	assert.Nil(t, f.ParsedDetails)
}

func TestFeedbackStatusValid(t *testing.T) {
	assert.True(t, FeedbackNew.Valid())
	assert.True(t, FeedbackCompleted.Valid())
	assert.False(t, FeedbackStatus("DONE").Valid())
}
