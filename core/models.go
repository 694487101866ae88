package core

// ========== video metadata ==========

// Format is one downloadable encoding of a video. Only variants carrying
// both a video and an audio stream survive metadata filtering.
type Format struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	Filesize   int64  `json:"filesize"`
	Note       string `json:"note"`
}

// VideoInfo is an on-demand metadata snapshot. It is never persisted.
type VideoInfo struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Thumbnail     string   `json:"thumbnail"`
	Duration      int      `json:"duration"`
	Formats       []Format `json:"formats"`
	Subtitles     []string `json:"subtitles"`
	AutoSubtitles []string `json:"auto_subtitles"`
}

// ========== retrieval ==========

type Hit struct {
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// ========== request / response types ==========

type VideoRequest struct {
	URL string `json:"url"`
}

type DownloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id"`
	VideoID  string `json:"video_id"`
}

type ChatRequest struct {
	VideoID  string `json:"video_id"`
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type StartedResponse struct {
	Status  string `json:"status"`
	VideoID string `json:"video_id"`
}
