package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/models"
	"github.com/HammerMeetNail/studentcomputing/internal/storage"
)

// maxIDAttempts bounds regeneration when a fresh id collides with one loaded
// from an older board.
const maxIDAttempts = 3

var (
	// ErrPersistFailed marks a command whose in-memory change succeeded but
	// could not be written to storage. The returned result still reflects the
	// change.
	ErrPersistFailed = errors.New("idea board could not be saved")
	ErrIDExhausted   = errors.New("could not generate a unique idea id")
)

// BoardResult is the board after a command.
type BoardResult struct {
	Ideas models.Board
	// Idea is the idea Submit created, nil otherwise.
	Idea *models.Idea
	// Changed is false for commands that were no-ops.
	Changed bool
}

type IdeaBoardOption func(*IdeaBoardService)

func WithIDGenerator(g IDGenerator) IdeaBoardOption {
	return func(s *IdeaBoardService) { s.ids = g }
}

func WithClock(now func() time.Time) IdeaBoardOption {
	return func(s *IdeaBoardService) { s.now = now }
}

func WithLogger(logger *logging.Logger) IdeaBoardOption {
	return func(s *IdeaBoardService) { s.logger = logger }
}

// IdeaBoardService owns the idea collection and writes it through to
// storage after every change. Commands are serialized: each one sees the
// complete result of the one before it.
type IdeaBoardService struct {
	mu      sync.Mutex
	storage storage.Storage
	key     string
	ids     IDGenerator
	now     func() time.Time
	logger  *logging.Logger

	board  models.Board
	loaded bool
	// dirty is set while storage lags behind board after a failed write.
	dirty bool
}

func NewIdeaBoardService(store storage.Storage, key string, opts ...IdeaBoardOption) *IdeaBoardService {
	s := &IdeaBoardService{
		storage: store,
		key:     key,
		ids:     NewULIDGenerator(),
		now:     time.Now,
		logger:  logging.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "idea_board")
	return s
}

// Load reads the board from storage. A missing, unreadable or malformed value
// yields an empty board. Only the first call reads; later calls return the
// current board.
func (s *IdeaBoardService) Load(ctx context.Context) models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	return s.board.Clone()
}

func (s *IdeaBoardService) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.board = models.Board{}

	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("Reading idea board failed; starting empty", logging.Fields{
			"key":   s.key,
			"error": err.Error(),
		})
		return
	}
	if !found {
		s.logger.Debug("No stored idea board; starting empty", logging.Fields{"key": s.key})
		return
	}

	board, err := models.ParseBoard(raw)
	if err != nil {
		s.logger.Warn("Stored idea board is malformed; starting empty", logging.Fields{
			"key":   s.key,
			"error": err.Error(),
			"bytes": len(raw),
		})
		return
	}
	s.board = board
	s.logger.Info("Loaded idea board", logging.Fields{"key": s.key, "ideas": len(board)})
}

// Ideas returns a copy of the current board, oldest first.
func (s *IdeaBoardService) Ideas(ctx context.Context) models.Board {
	return s.Load(ctx)
}

// Submit appends an idea with the trimmed text. Blank text changes nothing
// and writes nothing.
func (s *IdeaBoardService) Submit(ctx context.Context, rawText string) (BoardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)

	text := strings.TrimSpace(rawText)
	if text == "" {
		return BoardResult{Ideas: s.board.Clone()}, nil
	}

	now := s.now()
	id, err := s.uniqueIDLocked(now)
	if err != nil {
		return BoardResult{Ideas: s.board.Clone()}, err
	}

	idea := models.Idea{
		ID:        id,
		Text:      text,
		Timestamp: models.NewTimestamp(now),
	}
	s.board = append(s.board, idea)

	result := BoardResult{Ideas: s.board.Clone(), Idea: &idea, Changed: true}
	return result, s.persistLocked(ctx)
}

func (s *IdeaBoardService) uniqueIDLocked(at time.Time) (models.IdeaID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.ids.NewID(at)
		if err != nil {
			return "", err
		}
		if s.board.IndexOf(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// Delete removes the idea with id. An unknown id changes nothing and writes
// nothing.
func (s *IdeaBoardService) Delete(ctx context.Context, id models.IdeaID) (BoardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)

	i := s.board.IndexOf(id)
	if i < 0 {
		return BoardResult{Ideas: s.board.Clone()}, nil
	}

	next := make(models.Board, 0, len(s.board)-1)
	next = append(next, s.board[:i]...)
	next = append(next, s.board[i+1:]...)
	s.board = next

	return BoardResult{Ideas: s.board.Clone(), Changed: true}, s.persistLocked(ctx)
}

// Persist writes the whole board to storage, replacing what was there.
func (s *IdeaBoardService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Writing before loading would overwrite a stored board with nothing.
	s.loadLocked(ctx)
	return s.persistLocked(ctx)
}

// Flush persists only when an earlier write failed.
func (s *IdeaBoardService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	return s.persistLocked(ctx)
}

func (s *IdeaBoardService) persistLocked(ctx context.Context) error {
	s.dirty = true
	encoded, err := s.board.Encode()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	if err := s.storage.Set(ctx, s.key, encoded); err != nil {
		s.logger.Error("Saving idea board failed; change kept in memory only", logging.Fields{
			"key":   s.key,
			"ideas": len(s.board),
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	s.dirty = false
	return nil
}
