package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout matches the ISO-8601 form browsers produce with
// Date.prototype.toISOString, so boards written by either side read back equal.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DisplayLayout is the human-readable rendering shown next to each idea.
const DisplayLayout = "Jan 2, 2006, 3:04 PM"

var (
	ErrIdeaMissingID        = errors.New("idea has no id")
	ErrIdeaEmptyText        = errors.New("idea text is empty")
	ErrIdeaMissingTimestamp = errors.New("idea has no timestamp")
	ErrDuplicateIdeaID      = errors.New("duplicate idea id")
)

// IdeaID identifies an idea. Older boards stored numeric ids; those are read
// back as their decimal string.
type IdeaID string

func (id IdeaID) String() string {
	return string(id)
}

func (id *IdeaID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = IdeaID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("idea id must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = IdeaID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = IdeaID(n.String())
	return nil
}

// Timestamp is a creation time serialized with millisecond precision in UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}
	*t = NewTimestamp(parsed)
	return nil
}

type Idea struct {
	ID        IdeaID    `json:"id"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

func (i Idea) Validate() error {
	if i.ID == "" {
		return ErrIdeaMissingID
	}
	if strings.TrimSpace(i.Text) == "" {
		return ErrIdeaEmptyText
	}
	if i.Timestamp.IsZero() {
		return ErrIdeaMissingTimestamp
	}
	return nil
}

// DisplayTime renders the timestamp in loc, or UTC when loc is nil.
func (i Idea) DisplayTime(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return i.Timestamp.In(loc).Format(DisplayLayout)
}

// Board is the ordered idea collection, oldest first.
type Board []Idea

// ParseBoard decodes a persisted board and checks every record. Any invalid
// record rejects the whole value.
func ParseBoard(raw string) (Board, error) {
	if strings.TrimSpace(raw) == "" {
		return Board{}, nil
	}

	var board Board
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		return nil, fmt.Errorf("decoding board: %w", err)
	}
	if board == nil {
		return nil, errors.New("decoding board: value is not an array")
	}

	seen := make(map[IdeaID]struct{}, len(board))
	for i, idea := range board {
		if err := idea.Validate(); err != nil {
			return nil, fmt.Errorf("idea %d: %w", i, err)
		}
		if _, dup := seen[idea.ID]; dup {
			return nil, fmt.Errorf("idea %d: %w: %s", i, ErrDuplicateIdeaID, idea.ID)
		}
		seen[idea.ID] = struct{}{}
		board[i].Text = strings.TrimSpace(idea.Text)
	}
	return board, nil
}

func (b Board) Encode() (string, error) {
	if b == nil {
		b = Board{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encoding board: %w", err)
	}
	return string(data), nil
}

func (b Board) Clone() Board {
	out := make(Board, len(b))
	copy(out, b)
	return out
}

func (b Board) IndexOf(id IdeaID) int {
	for i, idea := range b {
		if idea.ID == id {
			return i
		}
	}
	return -1
}

// IdeaView is the shape handed to templates and API clients.
type IdeaView struct {
	ID          IdeaID    `json:"id"`
	Text        string    `json:"text"`
	Timestamp   Timestamp `json:"timestamp"`
	DisplayTime string    `json:"display_time"`
}

func (b Board) Views(loc *time.Location) []IdeaView {
	views := make([]IdeaView, 0, len(b))
	for _, idea := range b {
		views = append(views, IdeaView{
			ID:          idea.ID,
			Text:        idea.Text,
			Timestamp:   idea.Timestamp,
			DisplayTime: idea.DisplayTime(loc),
		})
	}
	return views
}
