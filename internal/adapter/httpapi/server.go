// Package httpapi exposes the Tajwid engine, the recitation comparator and
// the voice scoring pipeline over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/escalopa/quran-tajwid-bot/internal/adapter/whisper"
	"github.com/escalopa/quran-tajwid-bot/internal/application"
	"github.com/escalopa/quran-tajwid-bot/internal/domain"
	"github.com/escalopa/quran-tajwid-bot/internal/tajwid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const multipartMemory = 8 << 20

type Server struct {
	recitation     *application.RecitationService
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewServer(recitation *application.RecitationService, maxUploadBytes int64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &Server{
		recitation:     recitation,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Router builds the chi router with every endpoint mounted
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.RegisterHTTP(r)

	return r
}

// RegisterHTTP mounts the API endpoints on r
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/voice/analyze", s.handleVoiceAnalyze)
		r.Get("/tajwid/rules", s.handleListRules)
		r.Post("/tajwid/analyze", s.handleAnalyze)
		r.Post("/recitation/compare", s.handleCompare)
		r.Get("/quran/surahs", s.handleListSurahs)
		r.Get("/quran/juz/{juz}", s.handleJuz)
		r.Get("/quran/reciters", s.handleListReciters)
	})
}

type tajwidSummary struct {
	Score   int                     `json:"score"`
	Details []domain.FeedbackDetail `json:"details"`
}

type voiceAnalysisResponse struct {
	ID             string        `json:"id"`
	OverallScore   int           `json:"overallScore"`
	Accuracy       int           `json:"accuracy"`
	Transcription  string        `json:"transcription"`
	Differences    []string      `json:"differences"`
	Passed         bool          `json:"passed"`
	TajwidAnalysis tajwidSummary `json:"tajwidAnalysis"`
}

// handleVoiceAnalyze scores an uploaded recording against the expected text.
// POST /api/voice/analyze (multipart: audio, expected_text, duration)
func (s *Server) handleVoiceAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "AUDIO_TOO_LARGE", "audio file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	expectedText := strings.TrimSpace(r.FormValue("expected_text"))
	file, header, err := r.FormFile("audio")
	if err != nil || expectedText == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "audio and expected_text are required")
		return
	}
	defer file.Close()

	duration := 0
	if raw := r.FormValue("duration"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			duration = int(parsed)
		}
	}

	result, err := s.recitation.FullRecitationAnalysis(r.Context(), file, header.Filename, expectedText, duration)
	if err != nil {
		s.writeTranscriptionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voiceAnalysisResponse{
		ID:            result.ID,
		OverallScore:  result.OverallScore,
		Accuracy:      result.Accuracy,
		Transcription: result.Transcription,
		Differences:   result.Differences,
		Passed:        result.Passed(),
		TajwidAnalysis: tajwidSummary{
			Score:   result.TajwidAnalysis.Score,
			Details: application.FeedbackDetails(result.Accuracy),
		},
	})
}

func (s *Server) writeTranscriptionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, whisper.ErrMissingAPIKey):
		writeError(w, http.StatusServiceUnavailable, "NO_API_KEY", "speech recognition is not configured")
	case errors.Is(err, whisper.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, retry later")
	case errors.Is(err, whisper.ErrEmptyAudio):
		writeError(w, http.StatusBadRequest, "EMPTY_AUDIO", "audio file is empty")
	case errors.Is(err, whisper.ErrUnauthorized):
		s.logger.Error("speech recognition rejected credentials", "error", err)
		writeError(w, http.StatusBadGateway, "TRANSCRIPTION_UNAUTHORIZED", "speech recognition rejected the configured key")
	default:
		s.logger.Error("voice analysis failed",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "ANALYSIS_FAILED", "voice analysis failed")
	}
}

// GET /api/tajwid/rules
func (s *Server) handleListRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": tajwid.AvailableRules()})
}

type analyzeRequest struct {
	Text  string   `json:"text"`
	Rules []string `json:"rules"`
}

// POST /api/tajwid/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, tajwid.Analyze(req.Text, req.Rules))
}

type compareRequest struct {
	Expected string `json:"expected"`
	Recited  string `json:"recited"`
}

// POST /api/recitation/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, tajwid.CompareRecitation(req.Expected, req.Recited))
}

type surahResponse struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Ayahs  int    `json:"ayahs"`
}

func toSurahResponses(list []domain.Surah) []surahResponse {
	out := make([]surahResponse, len(list))
	for i, surah := range list {
		out[i] = surahResponse{Number: surah.Number, Name: surah.Name, Ayahs: surah.Ayahs}
	}
	return out
}

type surahListResponse struct {
	Surahs     []surahResponse `json:"surahs"`
	Total      int             `json:"total"`
	TotalAyahs int             `json:"totalAyahs"`
}

// GET /api/quran/surahs
func (s *Server) handleListSurahs(w http.ResponseWriter, _ *http.Request) {
	surahs := domain.GetAllSurahs()
	resp := surahListResponse{
		Surahs: toSurahResponses(surahs),
		Total:  len(surahs),
	}
	for _, surah := range surahs {
		resp.TotalAyahs += surah.Ayahs
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/quran/reciters
func (s *Server) handleListReciters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reciters": domain.Reciters(),
		"default":  domain.DefaultReciterID,
	})
}

// handleJuz lists the surahs studied for a juz.
// GET /api/quran/juz/{juz}
func (s *Server) handleJuz(w http.ResponseWriter, r *http.Request) {
	juz, err := strconv.Atoi(chi.URLParam(r, "juz"))
	if err != nil || juz < 1 || juz > domain.JuzCount {
		writeError(w, http.StatusNotFound, "UNKNOWN_JUZ", "juz must be between 1 and 30")
		return
	}

	var surahs []domain.Surah
	for _, number := range domain.JuzSurahs(juz) {
		if surah, ok := domain.GetSurah(number); ok {
			surahs = append(surahs, surah)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"juz":    juz,
		"surahs": toSurahResponses(surahs),
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func decodeJSON(body io.Reader, v interface{}) error {
	return json.NewDecoder(io.LimitReader(body, 1<<20)).Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, map[string]string{"error": message, "code": errCode})
}
