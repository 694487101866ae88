package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"smartTube/core"
)

// VideoService is the metadata/download capability behind /info, /download
// and /analyze.
type VideoService interface {
	FetchMetadata(ctx context.Context, url string) (*core.VideoInfo, error)
	DownloadMedia(ctx context.Context, url, formatID, videoID string) error
	DownloadSubtitles(ctx context.Context, url, videoID, lang string) (string, bool)
}

// AnswerService is the subtitle ingestion and question answering capability.
type AnswerService interface {
	Ingest(ctx context.Context, path, videoID string) (int, error)
	Answer(ctx context.Context, videoID, question string) (string, error)
}

// Server exposes the download and RAG pipelines over HTTP. Long-running
// work runs in fire-and-forget goroutines; the progress tracker is the only
// state clients can poll afterwards.
type Server struct {
	videos  VideoService
	rag     AnswerService
	tracker *core.ProgressTracker
	subLang string
}

func NewServer(videos VideoService, rag AnswerService, tracker *core.ProgressTracker, subLang string) *Server {
	return &Server{
		videos:  videos,
		rag:     rag,
		tracker: tracker,
		subLang: subLang,
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/info", s.InfoHandler)
	mux.HandleFunc("/download", s.DownloadHandler)
	mux.HandleFunc("/progress/", s.ProgressHandler)
	mux.HandleFunc("/analyze", s.AnalyzeHandler)
	mux.HandleFunc("/chat", s.ChatHandler)
}

// InfoHandler resolves a URL to its metadata snapshot synchronously.
func (s *Server) InfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req core.VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.URL == "" {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	info, err := s.videos.FetchMetadata(r.Context(), req.URL)
	if err != nil {
		log.Printf("fetch metadata failed for %s: %v", req.URL, err)
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Could not fetch video info"})
		return
	}
	core.WriteJSON(w, http.StatusOK, info)
}

// DownloadHandler launches a media download in the background and answers
// immediately. Failures after this point surface only via /progress.
func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req core.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.URL == "" || req.FormatID == "" || req.VideoID == "" {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "url, format_id and video_id are required"})
		return
	}

	go func() {
		if err := s.videos.DownloadMedia(context.Background(), req.URL, req.FormatID, req.VideoID); err != nil {
			log.Printf("download failed for %s: %v", req.VideoID, err)
		}
	}()

	core.WriteJSON(w, http.StatusOK, core.StartedResponse{Status: "Download started", VideoID: req.VideoID})
}

// ProgressHandler returns the current record for /progress/{videoId}.
func (s *Server) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	videoID := strings.TrimPrefix(r.URL.Path, "/progress/")
	if videoID == "" || strings.Contains(videoID, "/") {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "video_id is required"})
		return
	}

	core.WriteJSON(w, http.StatusOK, s.tracker.Get(videoID))
}

// AnalyzeHandler downloads subtitles for a video and kicks off ingestion in
// the background. A missing subtitle track is a soft response, not an
// error; ingestion failures are logged and not exposed to polling.
func (s *Server) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req core.VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.URL == "" {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	info, err := s.videos.FetchMetadata(r.Context(), req.URL)
	if err != nil {
		log.Printf("fetch metadata failed for %s: %v", req.URL, err)
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Video invalid"})
		return
	}

	path, ok := s.videos.DownloadSubtitles(r.Context(), req.URL, info.ID, s.subLang)
	if !ok {
		core.WriteJSON(w, http.StatusOK, core.StartedResponse{Status: "No subtitles found to analyze", VideoID: info.ID})
		return
	}

	go func() {
		if _, err := s.rag.Ingest(context.Background(), path, info.ID); err != nil {
			log.Printf("ingestion failed for %s: %v", info.ID, err)
		}
	}()

	core.WriteJSON(w, http.StatusOK, core.StartedResponse{Status: "Analysis started", VideoID: info.ID})
}

// ChatHandler answers a question about an ingested video synchronously.
func (s *Server) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req core.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.VideoID == "" || req.Question == "" {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "video_id and question are required"})
		return
	}

	answer, err := s.rag.Answer(r.Context(), req.VideoID, req.Question)
	if err != nil {
		core.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	core.WriteJSON(w, http.StatusOK, core.ChatResponse{Answer: answer})
}
