// Package extract implements the four extraction use-cases (video,
// playlist, search, suggestions) on top of the transport, the shared
// cache, the rate limiter and the signing-service decryptor.
package extract

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/ytx/client"
	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/internal/cache"
	"github.com/ytget/ytx/internal/logger"
	"github.com/ytget/ytx/internal/ratelimit"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/innertube"
	"github.com/ytget/ytx/youtube/signature"
)

// Endpoint keys for the rate limiter.
const (
	endpointVideo    = "video"
	endpointPlaylist = "playlist"
	endpointSearch   = "search"
	endpointSuggest  = "suggest"
)

// videoCacheTTL applies to assembled VideoInfo entries.
const videoCacheTTL = 30 * time.Minute

var (
	videoIDRe    = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	videoURLRe   = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|live/|v/)|youtu\.be/)([0-9A-Za-z_-]{11})`)
	playlistIDRe = regexp.MustCompile(`[?&]list=([0-9A-Za-z_-]{2,})`)
	playerVerRe  = regexp.MustCompile(`/s/player/([0-9a-f]+)`)
)

// hostsAllowed are the URL hosts extraction accepts.
var hostsAllowed = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// Options carries per-call overrides. The language/region pair is passed
// explicitly through the call chain; shared configuration is never
// mutated for a call.
type Options struct {
	Language string
	Region   string
	Profile  string
	NoCache  bool
}

func (o *Options) locale(fallback innertube.Locale) innertube.Locale {
	if o == nil {
		return fallback.Or(innertube.DefaultLocale)
	}
	return innertube.Locale{HL: o.Language, GL: o.Region}.Or(fallback).Or(innertube.DefaultLocale)
}

// Extractor bundles the shared capabilities every use-case consumes.
type Extractor struct {
	Client    *client.Client
	Store     *cache.Cache[string, any]
	Limiter   *ratelimit.Limiter
	Decryptor *signature.Decryptor
	Subtitles SubtitleConverter

	Profile innertube.Profile
	Locale  innertube.Locale

	log *logger.ComponentLogger
}

// New creates an Extractor over the given collaborators. Decryptor may be
// nil when no signing service is configured; ciphered formats then keep
// their cipher fields and an empty URL.
func New(c *client.Client, store *cache.Cache[string, any], limiter *ratelimit.Limiter, dec *signature.Decryptor) *Extractor {
	profile, _ := innertube.ProfileFor(innertube.DefaultProfile)
	return &Extractor{
		Client:    c,
		Store:     store,
		Limiter:   limiter,
		Decryptor: dec,
		Profile:   profile,
		Locale:    innertube.DefaultLocale,
		log:       logger.New(logger.FromEnv()).WithComponent(logger.ComponentExtract),
	}
}

// WithLogger replaces the component logger.
func (e *Extractor) WithLogger(log *logger.ComponentLogger) *Extractor {
	if log != nil {
		e.log = log
	}
	return e
}

func (e *Extractor) profileFor(opts *Options) innertube.Profile {
	if opts != nil && opts.Profile != "" {
		if p, ok := innertube.ProfileFor(opts.Profile); ok {
			return p
		}
	}
	return e.Profile
}

// ExtractVideoID returns the 11-character video id from a watch, short,
// embed or youtu.be URL, or false when the URL carries none.
func ExtractVideoID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if videoIDRe.MatchString(rawURL) {
		return rawURL, true
	}
	if m := videoURLRe.FindStringSubmatch(rawURL); len(m) == 2 {
		return m[1], true
	}
	// watch URLs can carry v= after unrelated parameters
	if u, err := url.Parse(rawURL); err == nil {
		if v := u.Query().Get("v"); videoIDRe.MatchString(v) {
			return v, true
		}
	}
	return "", false
}

// ExtractPlaylistID returns the playlist id from a URL's list parameter,
// or false when absent. A bare playlist id is accepted as-is.
func ExtractPlaylistID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if m := playlistIDRe.FindStringSubmatch(rawURL); len(m) == 2 {
		return m[1], true
	}
	if strings.HasPrefix(rawURL, "PL") || strings.HasPrefix(rawURL, "OLAK") || strings.HasPrefix(rawURL, "RD") {
		if !strings.ContainsAny(rawURL, "/?&=") {
			return rawURL, true
		}
	}
	return "", false
}

// IsValidURL is the structural pre-flight check run before extraction.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return hostsAllowed[strings.ToLower(u.Host)]
}

// GetPlayerConfig POSTs a player request shaped for the chosen client
// profile and returns the raw player response. Rate-limited under the
// video endpoint key.
func (e *Extractor) GetPlayerConfig(ctx context.Context, videoID string, profile innertube.Profile, loc innertube.Locale) (map[string]any, error) {
	if err := e.Limiter.Wait(ctx, endpointVideo); err != nil {
		return nil, &errs.CancelledError{Err: err}
	}
	return e.Client.RequestJSON(ctx, http.MethodPost,
		innertube.EndpointURL(innertube.PlayerURL),
		profile.Headers(),
		innertube.PlayerBody(videoID, profile, loc))
}

// CheckAvailability inspects the playabilityStatus block. This is the
// first gate every extractor honors before trusting response content.
func CheckAvailability(playerResponse map[string]any) error {
	status, reason := playability(playerResponse)
	lower := strings.ToLower(reason)
	switch status {
	case "", "OK", "LIVE_STREAM_OFFLINE", "CONTENT_CHECK_REQUIRED":
		return nil
	case "LOGIN_REQUIRED":
		if strings.Contains(lower, "age") {
			return &errs.AgeRestrictedError{RequiredAge: 18}
		}
		if strings.Contains(lower, "private") {
			return &errs.PrivateVideoError{VideoID: videoID(playerResponse)}
		}
		return &errs.AuthenticationError{Reason: reason}
	case "ERROR":
		return &errs.VideoUnavailableError{VideoID: videoID(playerResponse), Reason: reason}
	case "UNPLAYABLE":
		if strings.Contains(lower, "private") {
			return &errs.PrivateVideoError{VideoID: videoID(playerResponse)}
		}
		return &errs.ExtractorError{Message: "video unplayable: " + reason, Expected: true}
	default:
		return &errs.ExtractorError{Message: "unknown playability status " + status}
	}
}

// playability returns the status code and reason text of a response.
func playability(playerResponse map[string]any) (status, reason string) {
	ps, ok := playerResponse["playabilityStatus"].(map[string]any)
	if !ok {
		return "", ""
	}
	status, _ = ps["status"].(string)
	reason, _ = ps["reason"].(string)
	if reason == "" {
		if sub, ok := ps["errorScreen"].(map[string]any); ok {
			if r, ok := findFirst(sub, "playerErrorMessageRenderer"); ok {
				reason = textOf(r["reason"])
			}
		}
	}
	return status, reason
}

// videoID returns the id the response reports for itself.
func videoID(playerResponse map[string]any) string {
	vd, ok := playerResponse["videoDetails"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := vd["videoId"].(string)
	return id
}

// playerVersion extracts the player bytecode version from the response's
// asset URL (the hex segment after /s/player/).
func playerVersion(playerResponse map[string]any) string {
	var jsURL string
	if assets, ok := playerResponse["assets"].(map[string]any); ok {
		jsURL, _ = assets["js"].(string)
	}
	if jsURL == "" {
		if cfg, ok := playerResponse["playerConfig"].(map[string]any); ok {
			if web, ok := cfg["webPlayerConfig"].(map[string]any); ok {
				jsURL, _ = web["jsUrl"].(string)
			}
		}
	}
	if m := playerVerRe.FindStringSubmatch(jsURL); len(m) == 2 {
		return m[1]
	}
	return ""
}

// textOf reads a text node in either of the two renderer encodings:
// {"simpleText": "..."} or {"runs": [{"text": "..."}, ...]}.
func textOf(node any) string {
	m, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := m["simpleText"].(string); ok {
		return s
	}
	runs, ok := m["runs"].([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, run := range runs {
		if rm, ok := run.(map[string]any); ok {
			if t, ok := rm["text"].(string); ok {
				b.WriteString(t)
			}
		}
	}
	return b.String()
}

// thumbnailsOf reads a thumbnail list from a node shaped
// {"thumbnails": [{url,width,height}, ...]} or from the list itself.
func thumbnailsOf(node any) []types.Thumbnail {
	var list []any
	switch v := node.(type) {
	case map[string]any:
		list, _ = v["thumbnails"].([]any)
	case []any:
		list = v
	}
	var out []types.Thumbnail
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		u, _ := m["url"].(string)
		if u == "" {
			continue
		}
		t := types.Thumbnail{URL: u}
		if w, ok := m["width"].(float64); ok {
			t.Width = int(w)
		}
		if h, ok := m["height"].(float64); ok {
			t.Height = int(h)
		}
		out = append(out, t)
	}
	return out
}

// intOf converts the numeric encodings the API mixes freely.
func intOf(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// findFirst returns the first object stored under key anywhere in node,
// walking maps and lists in document order.
func findFirst(node any, key string) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		if m, ok := v[key].(map[string]any); ok {
			return m, true
		}
		for _, val := range v {
			if m, ok := findFirst(val, key); ok {
				return m, true
			}
		}
	case []any:
		for _, val := range v {
			if m, ok := findFirst(val, key); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// collect appends every object stored under key, in document order.
func collect(node any, key string, out *[]map[string]any) {
	switch v := node.(type) {
	case map[string]any:
		if m, ok := v[key].(map[string]any); ok {
			*out = append(*out, m)
			return
		}
		for _, val := range v {
			collect(val, key, out)
		}
	case []any:
		for _, val := range v {
			collect(val, key, out)
		}
	}
}

// continuationToken finds the first continuation token in node. The
// common carriers are continuationCommand.token and
// nextContinuationData.continuation.
func continuationToken(node any) string {
	switch v := node.(type) {
	case map[string]any:
		if cc, ok := v["continuationCommand"].(map[string]any); ok {
			if tok, ok := cc["token"].(string); ok && tok != "" {
				return tok
			}
		}
		if nd, ok := v["nextContinuationData"].(map[string]any); ok {
			if tok, ok := nd["continuation"].(string); ok && tok != "" {
				return tok
			}
		}
		for _, val := range v {
			if t := continuationToken(val); t != "" {
				return t
			}
		}
	case []any:
		for _, val := range v {
			if t := continuationToken(val); t != "" {
				return t
			}
		}
	}
	return ""
}
