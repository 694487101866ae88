package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"smartTube/core"
)

// rawInfo is the subset of yt-dlp's -J output this service consumes.
type rawInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Thumbnail         string                     `json:"thumbnail"`
	Duration          float64                    `json:"duration"`
	Formats           []rawFormat                `json:"formats"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

type rawFormat struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	Filesize   int64  `json:"filesize"`
	FormatNote string `json:"format_note"`
	Vcodec     string `json:"vcodec"`
	Acodec     string `json:"acodec"`
}

// FetchMetadata resolves a URL to a VideoInfo snapshot without downloading
// payload bytes. Formats lacking either a video or an audio stream are
// dropped, so a source with only split streams yields an empty format list.
func (s *Service) FetchMetadata(ctx context.Context, url string) (*core.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, s.ytdlpPath, "-J", "--no-warnings", url)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("fetch metadata: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseVideoInfo(stdout.Bytes())
}

func parseVideoInfo(data []byte) (*core.VideoInfo, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("invalid metadata: missing or empty id")
	}

	info := &core.VideoInfo{
		ID:            raw.ID,
		Title:         raw.Title,
		Thumbnail:     raw.Thumbnail,
		Duration:      int(raw.Duration),
		Formats:       make([]core.Format, 0, len(raw.Formats)),
		Subtitles:     sortedKeys(raw.Subtitles),
		AutoSubtitles: sortedKeys(raw.AutomaticCaptions),
	}

	for _, f := range raw.Formats {
		// "none" marks a missing stream; absent codec fields pass through.
		if f.Vcodec == "none" || f.Acodec == "none" {
			continue
		}
		info.Formats = append(info.Formats, core.Format{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			Filesize:   f.Filesize,
			Note:       f.FormatNote,
		})
	}

	return info, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
