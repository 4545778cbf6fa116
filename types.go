package main

// DownloadRequest is the request body for POST /api/download.
// Quality and Format default to "best" and "mp4" during validation;
// StartTime and EndTime are passed through to yt-dlp unvalidated
// (seconds or HH:MM:SS).
type DownloadRequest struct {
	URL       string `json:"url"`
	Quality   string `json:"quality"`
	Format    string `json:"format"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// VideoInfo is the metadata extracted by an info probe.
type VideoInfo struct {
	Title     string   `json:"title"`
	Duration  float64  `json:"duration"`
	Thumbnail string   `json:"thumbnail"`
	Formats   []string `json:"formats"`
}

// DownloadResult points at a completed download on disk.
type DownloadResult struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}

// InfoRequest is the request body for POST /api/download/info.
type InfoRequest struct {
	URL string `json:"url"`
}

type HealthStatus struct {
	Status             string `json:"status"`
	Timestamp          string `json:"timestamp"`
	Uptime             string `json:"uptime"`
	Environment        string `json:"environment"`
	ActiveDownloads    int64  `json:"active_downloads"`
	CompletedDownloads int64  `json:"completed_downloads"`
	FailedDownloads    int64  `json:"failed_downloads"`
}
