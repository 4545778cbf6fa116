package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// blockedSignatures are the stderr phrases that indicate a YouTube-side
// sign-in/bot challenge or a detection-driven format refusal rather than a
// genuine tool failure.
var blockedSignatures = []string{
	"Sign in to confirm you're not a bot",
	"Only images are available",
	"Requested format is not available",
}

// commandRunner executes one external tool invocation and returns its stdout.
// Tests swap in a fake; processRunner is the real thing.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string) (string, error)
}

type processRunner struct {
	auth AuthConfig
}

func newProcessRunner(auth AuthConfig) *processRunner {
	return &processRunner{auth: auth}
}

// Run spawns the tool and resolves to stdout on success, or one of
// SpawnError, BlockedError, ToolError. A nonzero exit with usable stdout is
// treated as a warning-only run: yt-dlp sometimes exits nonzero while still
// printing the requested output.
func (p *processRunner) Run(ctx context.Context, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return "", &ToolError{ExitCode: -1, Stderr: fmt.Sprintf("%s did not complete: %v", name, ctx.Err())}
		}
		return "", &SpawnError{Tool: name, Err: err}
	}

	filtered := filterStderr(stderr.String())

	if sig := matchBlockedSignature(filtered); sig != "" {
		return "", &BlockedError{Detail: filtered, Message: blockedMessage(p.auth, filtered)}
	}

	// Stdout recovery only applies while the context is live: a process
	// killed by the deadline can leave partial progress on stdout.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &ToolError{ExitCode: exitErr.ExitCode(), Stderr: strings.TrimSpace(fmt.Sprintf("%s timed out: %s", name, filtered))}
	}
	if ctx.Err() != nil {
		return "", &ToolError{ExitCode: exitErr.ExitCode(), Stderr: fmt.Sprintf("%s canceled: %v", name, ctx.Err())}
	}

	if strings.TrimSpace(stdout.String()) != "" {
		return stdout.String(), nil
	}

	return "", &ToolError{ExitCode: exitErr.ExitCode(), Stderr: filtered}
}

// filterStderr strips known-benign noise before classification: plain
// warnings and the permission complaints yt-dlp emits when the cookie file
// is not writable.
func filterStderr(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WARNING:") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "cookie") && strings.Contains(lower, "permission denied") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func matchBlockedSignature(stderr string) string {
	for _, sig := range blockedSignatures {
		if strings.Contains(stderr, sig) {
			return sig
		}
	}
	return ""
}

// cookiesFileUsable mirrors the check prepareCookies makes before copying:
// a configured cookies file that does not exist falls through to the next
// auth mechanism, and the remediation text must say the same.
func cookiesFileUsable(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// blockedMessage builds the caller-facing remediation text, reflecting
// whichever authentication mechanism was actually applied.
func blockedMessage(auth AuthConfig, detail string) string {
	var authStatus string
	switch {
	case cookiesFileUsable(auth.CookiesFile):
		authStatus = "Cookies file is set (" + auth.CookiesFile + ")"
	case supportedCookieBrowsers[strings.ToLower(auth.CookiesBrowser)]:
		authStatus = "Browser cookies are set (" + strings.ToLower(auth.CookiesBrowser) + ")"
	case strings.TrimSpace(auth.POToken) != "":
		authStatus = "PO token is set"
	default:
		authStatus = "PO token is NOT set (YT_DLP_PO_TOKEN)"
	}

	return "YouTube is blocking access to this video. This may be due to:\n" +
		"- " + authStatus + "\n" +
		"- Invalid or expired PO token (extract a fresh one from your browser)\n" +
		"- Bot detection (YouTube may require a valid PO token)\n" +
		"- Age-restricted or region-locked content\n" +
		"- Video may be unavailable\n\n" +
		"To get a PO token:\n" +
		"1. Open YouTube in browser, press F12 -> Network tab\n" +
		"2. Filter by 'v1/player', play a video\n" +
		"3. Find 'serviceIntegrityDimensions.poToken' in the request payload\n" +
		"4. Set it as: export YT_DLP_PO_TOKEN=your_token\n\n" +
		"Original error: " + detail
}
