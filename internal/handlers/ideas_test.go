package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HammerMeetNail/studentcomputing/internal/logging"
	"github.com/HammerMeetNail/studentcomputing/internal/models"
	"github.com/HammerMeetNail/studentcomputing/internal/services"
	"github.com/HammerMeetNail/studentcomputing/internal/storage"
)

var quietLogger = logging.New().SetOutput(io.Discard)

func sampleIdea(id, text string) models.Idea {
	return models.Idea{
		ID:        models.IdeaID(id),
		Text:      text,
		Timestamp: models.NewTimestamp(time.Date(2025, 2, 3, 14, 5, 0, 0, time.UTC)),
	}
}

func decodeIdeas(t *testing.T, rr *httptest.ResponseRecorder) IdeasResponse {
	t.Helper()
	var resp IdeasResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestIdeaHandler_List(t *testing.T) {
	mockSvc := &mockIdeaBoardService{
		IdeasFunc: func(ctx context.Context) models.Board {
			return models.Board{sampleIdea("1", "a"), sampleIdea("2", "b")}
		},
	}
	handler := NewIdeaHandler(mockSvc, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodGet, "/api/ideas", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	resp := decodeIdeas(t, rr)
	if len(resp.Ideas) != 2 || resp.Ideas[0].Text != "a" || resp.Ideas[1].Text != "b" {
		t.Fatalf("unexpected ideas: %+v", resp.Ideas)
	}
	if resp.Ideas[0].DisplayTime != "Feb 3, 2025, 2:05 PM" {
		t.Fatalf("unexpected display time %q", resp.Ideas[0].DisplayTime)
	}
}

func TestIdeaHandler_List_EmptyIsArray(t *testing.T) {
	handler := NewIdeaHandler(&mockIdeaBoardService{}, nil, quietLogger)

	req := httptest.NewRequest(http.MethodGet, "/api/ideas", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if !strings.Contains(rr.Body.String(), `"ideas":[]`) {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
}

func TestIdeaHandler_Submit_Created(t *testing.T) {
	idea := sampleIdea("01ABC", "More charging stations")
	mockSvc := &mockIdeaBoardService{
		SubmitFunc: func(ctx context.Context, rawText string) (services.BoardResult, error) {
			if rawText != "  More charging stations " {
				t.Fatalf("expected raw text passed through, got %q", rawText)
			}
			return services.BoardResult{Ideas: models.Board{idea}, Idea: &idea, Changed: true}, nil
		},
	}
	handler := NewIdeaHandler(mockSvc, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`{"text":"  More charging stations "}`))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	resp := decodeIdeas(t, rr)
	if resp.Idea == nil || resp.Idea.ID != "01ABC" {
		t.Fatalf("expected created idea in response, got %+v", resp.Idea)
	}
	if resp.Warning != "" {
		t.Fatalf("expected no warning, got %q", resp.Warning)
	}
}

func TestIdeaHandler_Submit_Blank(t *testing.T) {
	handler := NewIdeaHandler(&mockIdeaBoardService{}, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`{"text":"   "}`))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	assertErrorResponse(t, rr, http.StatusBadRequest, "Idea text is required")
}

func TestIdeaHandler_Submit_InvalidBody(t *testing.T) {
	handler := NewIdeaHandler(&mockIdeaBoardService{}, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`not json`))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid request body")
}

func TestIdeaHandler_Submit_BodyTooLarge(t *testing.T) {
	handler := NewIdeaHandler(&mockIdeaBoardService{}, time.UTC, quietLogger)

	body := fmt.Sprintf(`{"text":%q}`, strings.Repeat("x", maxIdeaBodyBytes))
	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid request body")
}

func TestIdeaHandler_Submit_PersistWarning(t *testing.T) {
	idea := sampleIdea("1", "kept")
	mockSvc := &mockIdeaBoardService{
		SubmitFunc: func(ctx context.Context, rawText string) (services.BoardResult, error) {
			return services.BoardResult{Ideas: models.Board{idea}, Idea: &idea, Changed: true},
				fmt.Errorf("%w: quota exceeded", services.ErrPersistFailed)
		},
	}
	handler := NewIdeaHandler(mockSvc, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`{"text":"kept"}`))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if resp := decodeIdeas(t, rr); resp.Warning != PersistWarning {
		t.Fatalf("expected persist warning, got %q", resp.Warning)
	}
}

func TestIdeaHandler_Submit_UnexpectedError(t *testing.T) {
	mockSvc := &mockIdeaBoardService{
		SubmitFunc: func(ctx context.Context, rawText string) (services.BoardResult, error) {
			return services.BoardResult{}, services.ErrIDExhausted
		},
	}
	handler := NewIdeaHandler(mockSvc, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodPost, "/api/ideas", strings.NewReader(`{"text":"x"}`))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	assertErrorResponse(t, rr, http.StatusInternalServerError, "Internal server error")
}

func TestIdeaHandler_Delete_UsesPathID(t *testing.T) {
	var gotID models.IdeaID
	mockSvc := &mockIdeaBoardService{
		DeleteFunc: func(ctx context.Context, id models.IdeaID) (services.BoardResult, error) {
			gotID = id
			return services.BoardResult{Ideas: models.Board{}, Changed: true}, nil
		},
	}
	handler := NewIdeaHandler(mockSvc, time.UTC, quietLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/ideas/{id}", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/ideas/01ABC", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotID != "01ABC" {
		t.Fatalf("expected id from path, got %q", gotID)
	}
}

func TestIdeaHandler_Delete_MissingID(t *testing.T) {
	handler := NewIdeaHandler(&mockIdeaBoardService{}, time.UTC, quietLogger)

	req := httptest.NewRequest(http.MethodDelete, "/api/ideas/", nil)
	rr := httptest.NewRecorder()
	handler.Delete(rr, req)

	assertErrorResponse(t, rr, http.StatusBadRequest, "Idea id is required")
}

func TestIdeaHandler_Delete_Error(t *testing.T) {
	mockSvc := &mockIdeaBoardService{
		DeleteFunc: func(ctx context.Context, id models.IdeaID) (services.BoardResult, error) {
			return services.BoardResult{}, errors.New("boom")
		},
	}
	handler := NewIdeaHandler(mockSvc, time.UTC, quietLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/ideas/{id}", handler.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/api/ideas/x", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assertErrorResponse(t, rr, http.StatusInternalServerError, "Internal server error")
}

// Runs the handlers against the real service to cover the board scenario
// end to end over HTTP.
func TestIdeaHandler_WithService(t *testing.T) {
	store := storage.NewMemoryStorage()
	svc := services.NewIdeaBoardService(store, "studentComputingIdeas", services.WithLogger(quietLogger))
	handler := NewIdeaHandler(svc, time.UTC, quietLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/ideas", handler.List)
	mux.HandleFunc("POST /api/ideas", handler.Submit)
	mux.HandleFunc("DELETE /api/ideas/{id}", handler.Delete)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(method, path, r))
		return rr
	}

	created := do(http.MethodPost, "/api/ideas", `{"text":"Add more charging stations"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.Code)
	}
	id := decodeIdeas(t, created).Idea.ID

	if rr := do(http.MethodPost, "/api/ideas", `{"text":"  "}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank idea, got %d", rr.Code)
	}
	if resp := decodeIdeas(t, do(http.MethodGet, "/api/ideas", "")); len(resp.Ideas) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(resp.Ideas))
	}

	deleted := do(http.MethodDelete, "/api/ideas/"+string(id), "")
	if resp := decodeIdeas(t, deleted); len(resp.Ideas) != 0 {
		t.Fatalf("expected empty board, got %d", len(resp.Ideas))
	}
	again := do(http.MethodDelete, "/api/ideas/"+string(id), "")
	if again.Code != http.StatusOK {
		t.Fatalf("expected repeated delete to succeed, got %d", again.Code)
	}

	stored, _, _ := store.Get(context.Background(), "studentComputingIdeas")
	if stored != "[]" {
		t.Fatalf("expected stored empty board, got %q", stored)
	}
}
