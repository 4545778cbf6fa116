package main

import (
	"fmt"
	"strings"
)

// FieldError describes a single violated request constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field constraint so clients can
// correct input programmatically.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// SpawnError means yt-dlp itself could not be launched.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v. Make sure %s is installed.", e.Tool, e.Err, e.Tool)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// BlockedError means yt-dlp ran but YouTube-side bot detection rejected the
// request. Message is the full remediation text shown to the caller; Detail
// is the filtered stderr that triggered the classification.
type BlockedError struct {
	Detail  string
	Message string
}

func (e *BlockedError) Error() string { return e.Message }

// ToolError is an unclassified nonzero yt-dlp exit.
type ToolError struct {
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("yt-dlp exited with code %d", e.ExitCode)
}

// ParseError means yt-dlp succeeded but its stdout was not the expected JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "failed to parse video info" }

func (e *ParseError) Unwrap() error { return e.Err }
