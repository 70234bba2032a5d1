package services

import (
	"context"

	"github.com/HammerMeetNail/studentcomputing/internal/models"
)

// IdeaBoardServiceInterface defines the contract for idea board operations
// used by handlers and the CLI.
type IdeaBoardServiceInterface interface {
	Ideas(ctx context.Context) models.Board
	Submit(ctx context.Context, rawText string) (BoardResult, error)
	Delete(ctx context.Context, id models.IdeaID) (BoardResult, error)
}

var _ IdeaBoardServiceInterface = (*IdeaBoardService)(nil)
