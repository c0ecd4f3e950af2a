package extract

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ytget/ytx/client"
	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/internal/cache"
	"github.com/ytget/ytx/internal/ratelimit"
)

// roundTripFunc stubs the transport so tests never touch the network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func requestBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	if r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("Failed to read request body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Failed to decode request body: %v", err)
	}
	return body
}

func newTestExtractor(rt roundTripFunc) *Extractor {
	c := client.NewWith(client.Config{Retries: 1, RetryDelay: time.Millisecond})
	c.HTTPClient.Transport = rt
	store := cache.New[string, any](50, time.Hour)
	limiter := ratelimit.New(time.Millisecond)
	return New(c, store, limiter, nil)
}

func decodeFixture(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return m
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input  string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?list=PLx&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=tooshort", "", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"not a url", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := ExtractVideoID(tt.input)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		input  string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc_123-XYZ", "PLabc_123-XYZ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123", "PLabc123", true},
		{"PLabc123", "PLabc123", true},
		{"RDdQw4w9WgXcQ", "RDdQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := ExtractPlaylistID(tt.input)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("ExtractPlaylistID(%q) = (%q, %v), want (%q, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"http://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ",
	}
	for _, u := range valid {
		if !IsValidURL(u) {
			t.Errorf("Expected %q to be valid", u)
		}
	}
	invalid := []string{
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"ftp://www.youtube.com/watch?v=x",
		"youtube.com/watch",
		"",
	}
	for _, u := range invalid {
		if IsValidURL(u) {
			t.Errorf("Expected %q to be invalid", u)
		}
	}
}

func TestTextOf(t *testing.T) {
	if got := textOf(map[string]any{"simpleText": "hello"}); got != "hello" {
		t.Errorf("Expected 'hello', got %q", got)
	}
	runs := map[string]any{"runs": []any{
		map[string]any{"text": "a"},
		map[string]any{"text": "b"},
	}}
	if got := textOf(runs); got != "ab" {
		t.Errorf("Expected 'ab', got %q", got)
	}
	if got := textOf(nil); got != "" {
		t.Errorf("Expected empty string for nil, got %q", got)
	}
	if got := textOf("plain"); got != "" {
		t.Errorf("Expected empty string for non-map, got %q", got)
	}
}

func TestContinuationToken(t *testing.T) {
	node := map[string]any{
		"contents": []any{
			map[string]any{
				"continuationItemRenderer": map[string]any{
					"continuationEndpoint": map[string]any{
						"continuationCommand": map[string]any{"token": "tok1"},
					},
				},
			},
		},
	}
	if got := continuationToken(node); got != "tok1" {
		t.Errorf("Expected 'tok1', got %q", got)
	}

	legacy := map[string]any{
		"continuations": []any{
			map[string]any{
				"nextContinuationData": map[string]any{"continuation": "tok2"},
			},
		},
	}
	if got := continuationToken(legacy); got != "tok2" {
		t.Errorf("Expected 'tok2', got %q", got)
	}

	if got := continuationToken(map[string]any{"contents": []any{}}); got != "" {
		t.Errorf("Expected empty token, got %q", got)
	}
}

func TestCheckAvailability(t *testing.T) {
	tests := []struct {
		name   string
		status string
		reason string
		verify func(error) bool
	}{
		{"ok", "OK", "", func(err error) bool { return err == nil }},
		{"missing status", "", "", func(err error) bool { return err == nil }},
		{"offline passes", "LIVE_STREAM_OFFLINE", "", func(err error) bool { return err == nil }},
		{"content check passes", "CONTENT_CHECK_REQUIRED", "", func(err error) bool { return err == nil }},
		{
			"age gate", "LOGIN_REQUIRED", "Sign in to confirm your age",
			func(err error) bool { var e *errs.AgeRestrictedError; return errors.As(err, &e) },
		},
		{
			"private", "LOGIN_REQUIRED", "This is a private video",
			func(err error) bool { var e *errs.PrivateVideoError; return errors.As(err, &e) },
		},
		{
			"login", "LOGIN_REQUIRED", "Sign in to continue",
			func(err error) bool { var e *errs.AuthenticationError; return errors.As(err, &e) },
		},
		{
			"removed", "ERROR", "Video unavailable",
			func(err error) bool { var e *errs.VideoUnavailableError; return errors.As(err, &e) },
		},
		{
			"unplayable private", "UNPLAYABLE", "This video is private",
			func(err error) bool { var e *errs.PrivateVideoError; return errors.As(err, &e) },
		},
		{
			"unplayable other", "UNPLAYABLE", "Not available",
			func(err error) bool {
				var e *errs.ExtractorError
				return errors.As(err, &e) && e.Expected
			},
		},
		{
			"unknown status", "WEIRD", "",
			func(err error) bool {
				var e *errs.ExtractorError
				return errors.As(err, &e) && !e.Expected
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := map[string]any{
				"playabilityStatus": map[string]any{"status": tt.status, "reason": tt.reason},
			}
			if !tt.verify(CheckAvailability(resp)) {
				t.Errorf("Unexpected result: %v", CheckAvailability(resp))
			}
		})
	}
}

func TestPlayabilityReadsErrorScreen(t *testing.T) {
	resp := map[string]any{
		"playabilityStatus": map[string]any{
			"status": "ERROR",
			"errorScreen": map[string]any{
				"playerErrorMessageRenderer": map[string]any{
					"reason": map[string]any{"simpleText": "Video unavailable"},
				},
			},
		},
	}
	_, reason := playability(resp)
	if reason != "Video unavailable" {
		t.Errorf("Expected reason from error screen, got %q", reason)
	}
}

func TestPlayerVersion(t *testing.T) {
	fromAssets := map[string]any{
		"assets": map[string]any{"js": "/s/player/4fcd6e4a/player_ias.vflset/en_US/base.js"},
	}
	if got := playerVersion(fromAssets); got != "4fcd6e4a" {
		t.Errorf("Expected version from assets, got %q", got)
	}

	fromConfig := map[string]any{
		"playerConfig": map[string]any{
			"webPlayerConfig": map[string]any{
				"jsUrl": "/s/player/deadbeef/player_ias.vflset/en_US/base.js",
			},
		},
	}
	if got := playerVersion(fromConfig); got != "deadbeef" {
		t.Errorf("Expected version from player config, got %q", got)
	}

	if got := playerVersion(map[string]any{}); got != "" {
		t.Errorf("Expected empty version, got %q", got)
	}
}
