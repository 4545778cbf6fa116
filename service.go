package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaService orchestrates the info probe and download use cases around the
// yt-dlp subprocess. It holds no per-request state; every call builds a
// fresh invocation.
type MediaService struct {
	cfg    *Config
	runner commandRunner
	cache  *infoCache
}

func NewMediaService(cfg *Config, runner commandRunner, cache *infoCache) *MediaService {
	return &MediaService{cfg: cfg, runner: runner, cache: cache}
}

// ytdlpInfo mirrors the slice of yt-dlp -j output we care about.
type ytdlpInfo struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail"`
	Formats   []struct {
		FormatNote string `json:"format_note"`
	} `json:"formats"`
}

// GetInfo runs a metadata-only probe and extracts title, duration, thumbnail
// and the human-readable format labels in tool-reported order.
func (s *MediaService) GetInfo(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if s.cache != nil {
		if info, ok := s.cache.Get(ctx, videoURL); ok {
			return info, nil
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.InfoTimeout)
	defer cancel()

	cookiesPath, cleanup := s.prepareCookies()
	defer cleanup()

	args := buildInfoArgs(videoURL, s.cfg.Auth, cookiesPath)
	stdout, err := s.runner.Run(probeCtx, s.cfg.YtdlpPath, args)
	if err != nil {
		toolInvocations.WithLabelValues("info", "error").Inc()
		return nil, err
	}
	toolInvocations.WithLabelValues("info", "ok").Inc()

	info, err := parseVideoInfo(stdout)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, videoURL, info)
	}
	return info, nil
}

// Download probes the video for a title, derives a unique filesystem-safe
// filename, then runs the full download invocation. The returned path is
// absolute and points at a file that exists when the call resolves.
func (s *MediaService) Download(ctx context.Context, req *DownloadRequest) (*DownloadResult, error) {
	if err := os.MkdirAll(s.cfg.DownloadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads directory: %w", err)
	}

	info, err := s.GetInfo(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	extension := "mp4"
	if req.Format == "mp3" {
		extension = "mp3"
	}
	filename := fmt.Sprintf("%s_%d.%s", sanitizeFilename(info.Title), time.Now().UnixMilli(), extension)
	outputPath := filepath.Join(s.cfg.DownloadsDir, filename)

	dlCtx, cancel := context.WithTimeout(ctx, s.cfg.DownloadTimeout)
	defer cancel()

	cookiesPath, cleanup := s.prepareCookies()
	defer cleanup()

	args := buildDownloadArgs(req, s.cfg.Auth, cookiesPath, outputPath)
	log.Printf("Starting download: %s %s", s.cfg.YtdlpPath, strings.Join(args, " "))

	if _, err := s.runner.Run(dlCtx, s.cfg.YtdlpPath, args); err != nil {
		toolInvocations.WithLabelValues("download", "error").Inc()
		return nil, err
	}
	toolInvocations.WithLabelValues("download", "ok").Inc()

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	return &DownloadResult{Filename: filename, Filepath: absPath}, nil
}

func parseVideoInfo(stdout string) (*VideoInfo, error) {
	var raw ytdlpInfo
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	formats := make([]string, 0, len(raw.Formats))
	for _, f := range raw.Formats {
		if f.FormatNote != "" {
			formats = append(formats, f.FormatNote)
		}
	}

	return &VideoInfo{
		Title:     raw.Title,
		Duration:  raw.Duration,
		Thumbnail: raw.Thumbnail,
		Formats:   formats,
	}, nil
}

// prepareCookies copies the configured cookie file into the scratch
// directory under a per-request name, so concurrent requests never share a
// scratch file and a read-only source never trips yt-dlp's cookie writer.
// Any failure falls through to no cookie auth rather than failing the
// request. The returned cleanup removes the copy.
func (s *MediaService) prepareCookies() (string, func()) {
	noop := func() {}

	src := s.cfg.Auth.CookiesFile
	if src == "" {
		return "", noop
	}
	if _, err := os.Stat(src); err != nil {
		log.Printf("⚠️  Cookies file %s not readable, continuing without cookies: %v", src, err)
		return "", noop
	}
	if err := os.MkdirAll(s.cfg.ScratchDir, 0o755); err != nil {
		log.Printf("⚠️  Cannot create scratch directory %s: %v", s.cfg.ScratchDir, err)
		return "", noop
	}

	data, err := os.ReadFile(src)
	if err != nil {
		log.Printf("⚠️  Cannot read cookies file %s: %v", src, err)
		return "", noop
	}

	dst := filepath.Join(s.cfg.ScratchDir, "cookies-"+uuid.New().String()+".txt")
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		log.Printf("⚠️  Cannot write scratch cookies file %s: %v", dst, err)
		return "", noop
	}

	return dst, func() { _ = os.Remove(dst) }
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// sanitizeFilename keeps only [A-Za-z0-9-_] and truncates to 100 characters.
func sanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}
