package main

import "strings"

// Fixed browser-like identity sent with every invocation to reduce trivial
// bot-detection friction.
const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	youtubeReferer   = "https://www.youtube.com/"
	acceptHeader     = "Accept:text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	languageHeader   = "Accept-Language:en-US,en;q=0.9"
)

// qualitySelectors maps a requested quality to a yt-dlp format expression
// preferring an mp4 video + m4a audio pair capped at that height, falling
// back through progressively looser selectors.
var qualitySelectors = map[string]string{
	"best": "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
	"1080": "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best",
	"720":  "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best",
	"480":  "bestvideo[height<=480][ext=mp4]+bestaudio[ext=m4a]/best[height<=480][ext=mp4]/best",
	"360":  "bestvideo[height<=360][ext=mp4]+bestaudio[ext=m4a]/best[height<=360][ext=mp4]/best",
}

// supportedCookieBrowsers are the browser names yt-dlp accepts for
// --cookies-from-browser. Anything else is silently ignored.
var supportedCookieBrowsers = map[string]bool{
	"chrome":  true,
	"firefox": true,
	"edge":    true,
	"opera":   true,
	"safari":  true,
	"brave":   true,
}

func headerArgs() []string {
	return []string{
		"--user-agent", browserUserAgent,
		"--referer", youtubeReferer,
		"--add-header", languageHeader,
		"--add-header", acceptHeader,
	}
}

// authArgs resolves the authentication precedence: cookie file (already
// copied to cookiesPath by the caller), then browser cookies, then PO token,
// then the multi-client fallback. The alternate player clients do not accept
// injected cookies, so any cookie-based auth restricts the client list to web.
func authArgs(auth AuthConfig, cookiesPath string) []string {
	if cookiesPath != "" {
		return []string{"--cookies", cookiesPath, "--extractor-args", "youtube:player_client=web"}
	}
	if browser := strings.ToLower(auth.CookiesBrowser); supportedCookieBrowsers[browser] {
		return []string{"--cookies-from-browser", browser, "--extractor-args", "youtube:player_client=web"}
	}
	if token := strings.TrimSpace(auth.POToken); token != "" {
		return []string{"--extractor-args", "youtube:player_client=web;po_token=web+" + token}
	}
	return []string{"--extractor-args", "youtube:player_client=web,ios,android"}
}

// buildInfoArgs builds the metadata-only probe invocation: JSON on stdout,
// nothing downloaded.
func buildInfoArgs(videoURL string, auth AuthConfig, cookiesPath string) []string {
	args := []string{"-j", "--no-playlist"}
	args = append(args, headerArgs()...)
	args = append(args, authArgs(auth, cookiesPath)...)
	args = append(args, videoURL)
	return args
}

// buildDownloadArgs builds the full download invocation for a validated
// request. The source URL is always the last positional argument.
func buildDownloadArgs(req *DownloadRequest, auth AuthConfig, cookiesPath, outputPath string) []string {
	args := headerArgs()
	args = append(args, authArgs(auth, cookiesPath)...)

	if req.Format == "mp3" {
		args = append(args, "-x", "--audio-format", "mp3", "--audio-quality", "0")
	} else {
		selector, ok := qualitySelectors[req.Quality]
		if !ok {
			selector = qualitySelectors["best"]
		}
		args = append(args, "-f", selector, "--merge-output-format", "mp4")
	}

	if req.StartTime != "" || req.EndTime != "" {
		start := req.StartTime
		if start == "" {
			start = "0"
		}
		end := req.EndTime
		if end == "" {
			end = "inf"
		}
		args = append(args, "--download-sections", "*"+start+"-"+end, "--force-keyframes-at-cuts")
	}

	args = append(args, "-o", outputPath, "--no-playlist", "--restrict-filenames", req.URL)
	return args
}
