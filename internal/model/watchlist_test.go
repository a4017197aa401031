package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWatchStatus(t *testing.T) {
	cases := map[string]WatchStatus{
		"planned":     StatusPlanned,
		"PLANNED":     StatusPlanned,
		" Completed ": StatusCompleted,
		"COMPLETED":   StatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseWatchStatus(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWatchStatus("watching")
	assert.Error(t, err)
	_, err = ParseWatchStatus("")
	assert.Error(t, err)
}

func TestWatchlistEntryFromResult(t *testing.T) {
	e := WatchlistEntryFromResult(SearchResult{
		IMDbID: "tt0111161",
		Title:  "The Shawshank Redemption",
		Year:   "1994",
		Type:   "movie",
		Poster: "url",
	})

	assert.Equal(t, "tt0111161", e.IMDbID)
	assert.Equal(t, "The Shawshank Redemption", e.Title)
	assert.Equal(t, "1994", e.Year)
	assert.Equal(t, "url", e.Poster)
	assert.Equal(t, StatusPlanned, e.Status)
}
