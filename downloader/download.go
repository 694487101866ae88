package downloader

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"smartTube/core"
)

// Service wraps yt-dlp for metadata, media and subtitle retrieval. Download
// progress is pushed into the injected tracker; polling it is the only
// channel back to clients.
type Service struct {
	downloadDir string
	ytdlpPath   string
	tracker     *core.ProgressTracker
}

func NewService(downloadDir, ytdlpPath string, tracker *core.ProgressTracker) *Service {
	return &Service{
		downloadDir: downloadDir,
		ytdlpPath:   ytdlpPath,
		tracker:     tracker,
	}
}

// DownloadMedia fetches the given format of url and tracks progress under
// videoID. Failure is terminal for the invocation; the error state lands in
// the tracker because the HTTP caller has already been answered.
func (s *Service) DownloadMedia(ctx context.Context, url, formatID, videoID string) error {
	s.tracker.Set(videoID, core.ProgressRecord{Status: core.StatusStarting, Progress: 0})

	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Format(formatID).
		Output(filepath.Join(s.downloadDir, "%(title)s.%(ext)s"))

	dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
		s.recordProgress(videoID, int64(update.DownloadedBytes), int64(update.TotalBytes), update.Started)
	})

	if _, err := dl.Run(ctx, url); err != nil {
		s.tracker.Set(videoID, core.ProgressRecord{Status: core.StatusError, Error: err.Error()})
		return fmt.Errorf("download %s format %s: %w", videoID, formatID, err)
	}

	s.tracker.Set(videoID, core.ProgressRecord{Status: core.StatusCompleted, Progress: 100})
	return nil
}

// recordProgress converts byte counters into a tracker record. The total
// may be yt-dlp's exact value or its estimate; when neither is known the
// previous percent is kept rather than reset.
func (s *Service) recordProgress(videoID string, downloaded, total int64, started time.Time) {
	rec := s.tracker.Get(videoID)
	rec.Status = core.StatusDownloading

	if total > 0 {
		rec.Progress = int(float64(downloaded) / float64(total) * 100)
	}

	if !started.IsZero() {
		if elapsed := time.Since(started); elapsed > 0 {
			rate := float64(downloaded) / elapsed.Seconds()
			rec.Speed = fmt.Sprintf("%.1fMB/s", rate/1024/1024)
			if total > 0 && rate > 0 {
				rec.ETASec = int(float64(total-downloaded) / rate)
			}
		}
	}

	s.tracker.Set(videoID, rec)
}

// DownloadSubtitles requests both manual and auto-generated tracks for lang
// and returns the subtitle file path. A missing track and a failed download
// both report !ok; callers cannot tell them apart.
func (s *Service) DownloadSubtitles(ctx context.Context, url, videoID, lang string) (string, bool) {
	dl := ytdlp.New().
		SkipDownload().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(lang).
		Output(filepath.Join(s.downloadDir, "%(id)s"))

	if _, err := dl.Run(ctx, url); err != nil {
		log.Printf("subtitle download failed for %s: %v", videoID, err)
		return "", false
	}

	// yt-dlp appends ".<lang>.vtt" to the output template.
	path := filepath.Join(s.downloadDir, fmt.Sprintf("%s.%s.vtt", videoID, lang))
	if !fileExists(path) {
		return "", false
	}
	return path, true
}
