package handlers

import (
	"context"

	"github.com/HammerMeetNail/studentcomputing/internal/models"
	"github.com/HammerMeetNail/studentcomputing/internal/services"
)

type mockIdeaBoardService struct {
	IdeasFunc  func(ctx context.Context) models.Board
	SubmitFunc func(ctx context.Context, rawText string) (services.BoardResult, error)
	DeleteFunc func(ctx context.Context, id models.IdeaID) (services.BoardResult, error)
}

func (m *mockIdeaBoardService) Ideas(ctx context.Context) models.Board {
	if m.IdeasFunc != nil {
		return m.IdeasFunc(ctx)
	}
	return models.Board{}
}

func (m *mockIdeaBoardService) Submit(ctx context.Context, rawText string) (services.BoardResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, rawText)
	}
	return services.BoardResult{Ideas: models.Board{}}, nil
}

func (m *mockIdeaBoardService) Delete(ctx context.Context, id models.IdeaID) (services.BoardResult, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return services.BoardResult{Ideas: models.Board{}}, nil
}
