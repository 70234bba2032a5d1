package services

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/HammerMeetNail/studentcomputing/internal/models"
)

// IDGenerator hands out idea ids. Ids from one generator never repeat, even
// for calls within the same millisecond.
type IDGenerator interface {
	NewID(at time.Time) (models.IdeaID, error)
}

type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewULIDGenerator uses the process-wide monotonic entropy source.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.DefaultEntropy()}
}

// NewULIDGeneratorWithEntropy is for tests that need reproducible ids.
func NewULIDGeneratorWithEntropy(entropy io.Reader) *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(entropy, 0)}
}

func (g *ULIDGenerator) NewID(at time.Time) (models.IdeaID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(at), g.entropy)
	if err != nil {
		return "", fmt.Errorf("generating idea id: %w", err)
	}
	return models.IdeaID(id.String()), nil
}
