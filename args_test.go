package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildDownloadArgsMP3(t *testing.T) {
	req := &DownloadRequest{URL: "https://youtu.be/abc123", Quality: "best", Format: "mp3"}

	args := buildDownloadArgs(req, AuthConfig{}, "", "/downloads/out.mp3")

	assert.True(t, hasArg(args, "-x"))
	assert.Equal(t, "mp3", argValue(args, "--audio-format"))
	assert.Equal(t, "0", argValue(args, "--audio-quality"))
	assert.False(t, hasArg(args, "-f"), "mp3 requests must not carry a video format selector")
	assert.False(t, hasArg(args, "--merge-output-format"))
	assert.Equal(t, "https://youtu.be/abc123", args[len(args)-1], "source URL must be the last positional argument")
}

func TestBuildDownloadArgsQualitySelector(t *testing.T) {
	tests := []struct {
		quality string
		want    string
	}{
		{"best", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"},
		{"1080", "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best"},
		{"720", "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best"},
		{"480", "bestvideo[height<=480][ext=mp4]+bestaudio[ext=m4a]/best[height<=480][ext=mp4]/best"},
		{"360", "bestvideo[height<=360][ext=mp4]+bestaudio[ext=m4a]/best[height<=360][ext=mp4]/best"},
		// Unrecognized qualities fall back to the best selector rather than erroring.
		{"4k", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"},
		{"", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"},
	}

	for _, tt := range tests {
		t.Run("quality "+tt.quality, func(t *testing.T) {
			req := &DownloadRequest{URL: "https://youtu.be/abc", Quality: tt.quality, Format: "mp4"}

			args := buildDownloadArgs(req, AuthConfig{}, "", "/downloads/out.mp4")

			assert.Equal(t, tt.want, argValue(args, "-f"))
			assert.Equal(t, "mp4", argValue(args, "--merge-output-format"))
		})
	}
}

func TestBuildDownloadArgsTimeRange(t *testing.T) {
	tests := []struct {
		name        string
		start, end  string
		wantSection string
	}{
		{"both bounds", "10", "60", "*10-60"},
		{"start only", "10", "", "*10-inf"},
		{"end only", "", "60", "*0-60"},
		{"hh:mm:ss bounds", "00:01:30", "00:02:00", "*00:01:30-00:02:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &DownloadRequest{
				URL:       "https://youtu.be/abc",
				Quality:   "best",
				Format:    "mp4",
				StartTime: tt.start,
				EndTime:   tt.end,
			}

			args := buildDownloadArgs(req, AuthConfig{}, "", "/downloads/out.mp4")

			assert.Equal(t, tt.wantSection, argValue(args, "--download-sections"))
			assert.True(t, hasArg(args, "--force-keyframes-at-cuts"))
		})
	}
}

func TestBuildDownloadArgsNoTimeRange(t *testing.T) {
	req := &DownloadRequest{URL: "https://youtu.be/abc", Quality: "best", Format: "mp4"}

	args := buildDownloadArgs(req, AuthConfig{}, "", "/downloads/out.mp4")

	assert.False(t, hasArg(args, "--download-sections"))
	assert.False(t, hasArg(args, "--force-keyframes-at-cuts"))
}

func TestBuildDownloadArgs720WithRange(t *testing.T) {
	req := &DownloadRequest{
		URL:       "https://www.youtube.com/watch?v=abc",
		Quality:   "720",
		Format:    "mp4",
		StartTime: "10",
		EndTime:   "60",
	}

	args := buildDownloadArgs(req, AuthConfig{}, "", "/downloads/out.mp4")

	assert.Contains(t, argValue(args, "-f"), "height<=720")
	assert.Equal(t, "*10-60", argValue(args, "--download-sections"))
	assert.True(t, hasArg(args, "--force-keyframes-at-cuts"))
	assert.True(t, hasArg(args, "--no-playlist"))
	assert.True(t, hasArg(args, "--restrict-filenames"))
	assert.Equal(t, "/downloads/out.mp4", argValue(args, "-o"))
}

func TestAuthArgsPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		auth        AuthConfig
		cookiesPath string
		want        []string
	}{
		{
			name:        "cookie file wins over everything",
			auth:        AuthConfig{POToken: "tok", CookiesBrowser: "firefox", CookiesFile: "/etc/cookies.txt"},
			cookiesPath: "/scratch/cookies-1.txt",
			want:        []string{"--cookies", "/scratch/cookies-1.txt", "--extractor-args", "youtube:player_client=web"},
		},
		{
			name: "browser cookies, case-insensitive",
			auth: AuthConfig{CookiesBrowser: "FireFox"},
			want: []string{"--cookies-from-browser", "firefox", "--extractor-args", "youtube:player_client=web"},
		},
		{
			name: "unsupported browser ignored",
			auth: AuthConfig{CookiesBrowser: "netscape"},
			want: []string{"--extractor-args", "youtube:player_client=web,ios,android"},
		},
		{
			name: "po token",
			auth: AuthConfig{POToken: "tok123"},
			want: []string{"--extractor-args", "youtube:player_client=web;po_token=web+tok123"},
		},
		{
			name: "no auth falls back to multi-client",
			auth: AuthConfig{},
			want: []string{"--extractor-args", "youtube:player_client=web,ios,android"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authArgs(tt.auth, tt.cookiesPath)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCookieAuthNeverEmitsMultiClient(t *testing.T) {
	req := &DownloadRequest{URL: "https://youtu.be/abc", Quality: "best", Format: "mp4"}

	args := buildDownloadArgs(req, AuthConfig{CookiesFile: "/etc/cookies.txt"}, "/scratch/cookies-1.txt", "/downloads/out.mp4")

	joined := strings.Join(args, " ")
	assert.NotContains(t, joined, "web,ios,android")
	assert.Equal(t, "youtube:player_client=web", argValue(args, "--extractor-args"))
}

func TestNoAuthEmitsNoCredentialFlags(t *testing.T) {
	args := buildInfoArgs("https://youtu.be/abc", AuthConfig{}, "")

	joined := strings.Join(args, " ")
	assert.False(t, hasArg(args, "--cookies"))
	assert.False(t, hasArg(args, "--cookies-from-browser"))
	assert.NotContains(t, joined, "po_token")
	assert.Contains(t, joined, "youtube:player_client=web,ios,android")
}

func TestBuildInfoArgs(t *testing.T) {
	args := buildInfoArgs("https://youtu.be/abc", AuthConfig{}, "")

	require.GreaterOrEqual(t, len(args), 3)
	assert.Equal(t, "-j", args[0])
	assert.Equal(t, "--no-playlist", args[1])
	assert.Equal(t, "https://youtu.be/abc", args[len(args)-1])
	assert.False(t, hasArg(args, "-o"), "the info probe never specifies an output path")
	assert.Equal(t, browserUserAgent, argValue(args, "--user-agent"))
	assert.Equal(t, youtubeReferer, argValue(args, "--referer"))
}
