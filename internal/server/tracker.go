package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"rivals-tracker/internal/config"
	"rivals-tracker/internal/domain"
	"rivals-tracker/internal/middleware"
	"rivals-tracker/internal/ocr"
	"rivals-tracker/internal/service"

	"github.com/rs/zerolog"
)

type Searcher interface {
	Search(ctx context.Context, handles []string) []domain.PlayerResult
}

type TrackerServer struct {
	recognizer ocr.Recognizer
	tracker    Searcher
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewTrackerServer(recognizer ocr.Recognizer, tracker *service.TrackerService, cfg *config.Config, logger zerolog.Logger) *TrackerServer {
	return newTrackerServer(recognizer, tracker, cfg, logger)
}

func newTrackerServer(recognizer ocr.Recognizer, tracker Searcher, cfg *config.Config, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{recognizer: recognizer, tracker: tracker, cfg: cfg, logger: logger}
}

type SearchResponse struct {
	Success            bool                       `json:"success"`
	ExtractedText      *string                    `json:"extractedText,omitempty"`
	TrackerResults     []domain.PlayerResult      `json:"trackerResults"`
	BanRecommendations []domain.BanRecommendation `json:"banRecommendations"`
	Summary            string                     `json:"summary"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type PlayersRequest struct {
	Handles []string `json:"handles"`
}

func (s *TrackerServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload", s.Upload)
	mux.HandleFunc("POST /players", s.Players)
	mux.HandleFunc("GET /test", s.Test)
}

// Upload reads a screenshot from the "image" form field, recognizes the
// handles on it and scrapes every one of them.
func (s *TrackerServer) Upload(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn().Int64("limit", tooLarge.Limit).Msg("upload too large")
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Image too large."})
			return
		}
		logger.Info().Err(err).Msg("no file received")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "No file uploaded."})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read upload")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to process image"})
		return
	}
	logger.Info().Str("filename", header.Filename).Int("bytes", len(image)).Msg("processing upload")

	text, err := s.recognizer.Recognize(r.Context(), image)
	if err != nil {
		logger.Error().Err(err).Msg("failed to recognize image")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to process image"})
		return
	}

	handles := ocr.ExtractHandles(text)
	logger.Info().Strs("handles", handles).Msg("ocr completed")

	resp := s.search(r.Context(), handles)
	resp.ExtractedText = &text

	logger.Info().Dur("duration", time.Since(start)).Int("results", len(resp.TrackerResults)).Msg("upload processed")
	writeJSON(w, http.StatusOK, resp)
}

// Players scrapes handles typed in by hand, skipping OCR.
func (s *TrackerServer) Players(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	var req PlayersRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err := dec.Decode(&req); err != nil {
		logger.Info().Err(err).Msg("invalid players request")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	handles := make([]string, 0, len(req.Handles))
	for _, h := range req.Handles {
		if h = strings.TrimSpace(h); h != "" {
			handles = append(handles, h)
		}
	}
	if len(handles) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "No player names given."})
		return
	}

	logger.Info().Strs("handles", handles).Msg("manual search")
	writeJSON(w, http.StatusOK, s.search(r.Context(), handles))
}

func (s *TrackerServer) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API is working!"})
}

func (s *TrackerServer) search(ctx context.Context, handles []string) SearchResponse {
	results := s.tracker.Search(ctx, handles)
	recs := service.Recommend(results)
	return SearchResponse{
		Success:            true,
		TrackerResults:     results,
		BanRecommendations: recs,
		Summary:            service.RenderSummary(recs),
	}
}

func (s *TrackerServer) requestLogger(r *http.Request) zerolog.Logger {
	return s.logger.With().Str("request_id", middleware.GetRequestID(r.Context())).Logger()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
