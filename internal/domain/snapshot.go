package domain

import "time"

// Snapshot is the result of one rendering pass: the events to draw and, when
// the pass failed, the error to show in place of fresh data.
type Snapshot struct {
	Title     string            `json:"title,omitempty"`
	Generated time.Time         `json:"generated,omitzero"`
	Events    []EarthquakeEvent `json:"events"`
	Skipped   int               `json:"skipped"`
	FetchedAt time.Time         `json:"fetched_at,omitzero"`

	// Err is set when the latest fetch failed. Events then hold the last
	// successfully fetched set, if any.
	Err      string    `json:"error,omitempty"`
	FailedAt time.Time `json:"failed_at,omitzero"`
}

// NewSnapshot builds a successful snapshot from a parsed feed.
func NewSnapshot(feed Feed) Snapshot {
	return Snapshot{
		Title:     feed.Title,
		Generated: feed.Generated,
		Events:    feed.Events,
		Skipped:   feed.Skipped,
		FetchedAt: clock.Now(),
	}
}

// WithError returns a copy of the snapshot marked as failed. The events of
// the receiver are kept so the map keeps showing the last good data.
func (s Snapshot) WithError(err error) Snapshot {
	s.Err = err.Error()
	s.FailedAt = clock.Now()
	return s
}

// Failed reports whether the latest pass failed.
func (s Snapshot) Failed() bool { return s.Err != "" }

// Styled derives styles and popups for every event in the snapshot.
func (s Snapshot) Styled() []StyledEvent {
	out := make([]StyledEvent, len(s.Events))
	for i, e := range s.Events {
		out[i] = Styled(e)
	}
	return out
}
