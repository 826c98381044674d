// Package models defines the entry record persisted by quicklog and the
// validation rules applied before anything reaches storage.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/common"
)

// EntryType classifies an entry kind.
type EntryType string

const (
	EntryTypeIssue EntryType = "issue"
	EntryTypeTask  EntryType = "task"
	EntryTypeNote  EntryType = "note"
)

// EntryTypes lists the accepted types in button order.
var EntryTypes = []EntryType{EntryTypeIssue, EntryTypeTask, EntryTypeNote}

// TimestampLayout is the ISO-8601 form stored for Entry.Timestamp. It is
// fixed width and always UTC, so lexical order equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ParseEntryType maps user input onto the closed set of entry types.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown entry type %q (want issue, task or note)", common.ErrValidation, s)
	}
	return t, nil
}

// Valid reports whether t is one of issue, task or note.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeIssue, EntryTypeTask, EntryTypeNote:
		return true
	}
	return false
}

func (t EntryType) String() string { return string(t) }

// Entry is a single captured record. Once appended it is never modified.
type Entry struct {
	// Id is assigned by the store on append; zero means "not stored yet".
	Id int64

	Type EntryType

	// Content is the trimmed, non-empty text.
	Content string

	// Timestamp is the creation time in UTC with millisecond precision.
	Timestamp time.Time

	// Synced is always false. Nothing transitions it.
	Synced bool
}

// NewEntry validates and normalizes user input into an Entry stamped at now.
// It never touches storage: invalid input fails with common.ErrValidation.
func NewEntry(t EntryType, content string, now time.Time) (*Entry, error) {
	e := &Entry{
		Type:      t,
		Content:   strings.TrimSpace(content),
		Timestamp: NormalizeTimestamp(now),
		Synced:    false,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the invariants an entry must hold before it is stored: the
// shape NewEntry produces, with no id assigned yet and Synced unset.
func (e *Entry) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: entry is nil", common.ErrValidation)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown entry type %q", common.ErrValidation, e.Type)
	}
	if strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("%w: content must not be empty", common.ErrValidation)
	}
	if e.Content != strings.TrimSpace(e.Content) {
		return fmt.Errorf("%w: content must be trimmed", common.ErrValidation)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is not set", common.ErrValidation)
	}
	if e.Timestamp.Location() != time.UTC || !e.Timestamp.Equal(NormalizeTimestamp(e.Timestamp)) {
		return fmt.Errorf("%w: timestamp must be UTC with millisecond precision", common.ErrValidation)
	}
	if e.Id != 0 {
		return fmt.Errorf("%w: entry already has id %d", common.ErrValidation, e.Id)
	}
	if e.Synced {
		return fmt.Errorf("%w: new entries are never synced", common.ErrValidation)
	}
	return nil
}

// FormattedTimestamp returns the stored ISO-8601 representation.
func (e *Entry) FormattedTimestamp() string {
	return FormatTimestamp(e.Timestamp)
}

func (e Entry) String() string {
	return fmt.Sprintf("#%d [%s] %s  %s", e.Id, e.Type, FormatTimestamp(e.Timestamp), e.Content)
}

// NormalizeTimestamp converts t to UTC and drops sub-millisecond precision.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatTimestamp renders t using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value produced by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
