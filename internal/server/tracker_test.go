package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"rivals-tracker/internal/config"
	"rivals-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

type fakeSearcher struct {
	mu    sync.Mutex
	calls [][]string
}

func (f *fakeSearcher) Search(ctx context.Context, handles []string) []domain.PlayerResult {
	f.mu.Lock()
	f.calls = append(f.calls, handles)
	f.mu.Unlock()

	results := make([]domain.PlayerResult, len(handles))
	for i, h := range handles {
		if h == "ghost" {
			results[i] = domain.NewErrorResult(h, "Could not load profile page after maximum attempts")
			continue
		}
		results[i] = domain.PlayerResult{
			Handle:  h,
			Status:  domain.StatusSuccess,
			Message: "Page loaded successfully",
			Roles:   []domain.RoleStat{},
			Heroes: []domain.HeroStat{
				{Name: "Hela", WinRate: 60, Wins: 15, Losses: 5},
			},
		}
	}
	return results
}

func newTestServer(rec fakeRecognizer, searcher *fakeSearcher) http.Handler {
	cfg := &config.Config{MaxUploadBytes: 1 << 20}
	mux := http.NewServeMux()
	newTrackerServer(rec, searcher, cfg, zerolog.Nop()).Register(mux)
	return mux
}

func multipartImage(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "lobby.png")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadSuccess(t *testing.T) {
	searcher := &fakeSearcher{}
	h := newTestServer(fakeRecognizer{text: "Karage\n\n ghost \nKarage\n"}, searcher)

	body, contentType := multipartImage(t, "image", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.ExtractedText)
	assert.Equal(t, "Karage\n\n ghost \nKarage\n", *resp.ExtractedText)

	require.Len(t, searcher.calls, 1)
	assert.Equal(t, []string{"Karage", "ghost", "Karage"}, searcher.calls[0])

	require.Len(t, resp.TrackerResults, 3)
	assert.Equal(t, domain.StatusError, resp.TrackerResults[1].Status)

	require.Len(t, resp.BanRecommendations, 1)
	assert.Equal(t, "Karage", resp.BanRecommendations[0].Player)
	assert.Equal(t, "1. Ban Hela - Karage has 60% win rate with 20 games", resp.Summary)
}

func TestUploadMissingFile(t *testing.T) {
	h := newTestServer(fakeRecognizer{}, &fakeSearcher{})

	body, contentType := multipartImage(t, "screenshot", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"No file uploaded."}`, rec.Body.String())
}

func TestUploadOCRFailureIsFatal(t *testing.T) {
	searcher := &fakeSearcher{}
	h := newTestServer(fakeRecognizer{err: errors.New("tesseract crashed")}, searcher)

	body, contentType := multipartImage(t, "image", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to process image"}`, rec.Body.String())
	assert.Empty(t, searcher.calls)
}

func TestUploadTooLarge(t *testing.T) {
	cfg := &config.Config{MaxUploadBytes: 16}
	mux := http.NewServeMux()
	newTrackerServer(fakeRecognizer{}, &fakeSearcher{}, cfg, zerolog.Nop()).Register(mux)

	body, contentType := multipartImage(t, "image", bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPlayers(t *testing.T) {
	searcher := &fakeSearcher{}
	h := newTestServer(fakeRecognizer{}, searcher)

	req := httptest.NewRequest(http.MethodPost, "/players", strings.NewReader(`{"handles":[" alice ","","bob"]}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "extractedText")
	assert.Equal(t, []string{"alice", "bob"}, searcher.calls[0])
}

func TestPlayersRejectsEmpty(t *testing.T) {
	h := newTestServer(fakeRecognizer{}, &fakeSearcher{})

	for _, body := range []string{`{"handles":[]}`, `{"handles":["  "]}`, `not json`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/players", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestTestEndpoint(t *testing.T) {
	h := newTestServer(fakeRecognizer{}, &fakeSearcher{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"API is working!"}`, rec.Body.String())
}
