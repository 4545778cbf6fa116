package main

import (
	"net/url"
	"regexp"
)

var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

var allowedQualities = map[string]bool{
	"best": true,
	"1080": true,
	"720":  true,
	"480":  true,
	"360":  true,
}

var allowedFormats = map[string]bool{
	"mp4": true,
	"mp3": true,
}

// Validate normalizes the request in place and returns every violated field
// constraint, or nil when the request is acceptable. Quality and Format
// default when absent; StartTime/EndTime pass through unchecked and are left
// to yt-dlp.
func (r *DownloadRequest) Validate() *ValidationError {
	var fields []FieldError

	if r.URL == "" {
		fields = append(fields, FieldError{Field: "url", Message: "URL is required"})
	} else if u, err := url.Parse(r.URL); err != nil || u.Scheme == "" || u.Host == "" {
		fields = append(fields, FieldError{Field: "url", Message: "Invalid URL"})
	} else if !youtubeURLPattern.MatchString(r.URL) {
		fields = append(fields, FieldError{Field: "url", Message: "Invalid YouTube URL"})
	}

	if r.Quality == "" {
		r.Quality = "best"
	} else if !allowedQualities[r.Quality] {
		fields = append(fields, FieldError{Field: "quality", Message: "Quality must be one of: best, 1080, 720, 480, 360"})
	}

	if r.Format == "" {
		r.Format = "mp4"
	} else if !allowedFormats[r.Format] {
		fields = append(fields, FieldError{Field: "format", Message: "Format must be one of: mp4, mp3"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
