// Package ytx extracts video, playlist, search and suggestion metadata
// from the platform's private web API. The Engine facade wires together
// the transport, the shared cache, the per-endpoint rate limiter and the
// external signing-service decryptor.
package ytx

import (
	"context"
	"time"

	"github.com/ytget/ytx/client"
	"github.com/ytget/ytx/internal/cache"
	"github.com/ytget/ytx/internal/logger"
	"github.com/ytget/ytx/internal/ratelimit"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/extract"
	"github.com/ytget/ytx/youtube/innertube"
	"github.com/ytget/ytx/youtube/signature"
)

// Options carries per-call extraction overrides.
type Options = extract.Options

// SearchOptions narrows and caps a search.
type SearchOptions = extract.SearchOptions

// SubtitleConverter converts caption tracks to target text formats.
type SubtitleConverter = extract.SubtitleConverter

// Config holds optional engine parameters. Zero values use defaults.
type Config struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	UserAgent  string
	ProxyURL   string
	// Headers are merged into every request after the base header set.
	Headers map[string]string

	CacheCapacity int
	CacheTTL      time.Duration
	RateInterval  time.Duration

	// SigningServiceURL points at the external stream-URL signing
	// service. Empty leaves ciphered formats unresolved.
	SigningServiceURL string

	Language string
	Region   string
	Profile  string
}

// Engine is the high-level extraction API. One instance shares its
// transport, cache and rate limiter across all calls and is safe for
// concurrent use.
type Engine struct {
	client    *client.Client
	store     *cache.Cache[string, any]
	limiter   *ratelimit.Limiter
	extractor *extract.Extractor

	log *logger.Logger
}

// New creates an Engine with default configuration.
func New() *Engine {
	return NewWith(Config{})
}

// NewWith creates an Engine from cfg. Zero fields use defaults.
func NewWith(cfg Config) *Engine {
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = cache.DefaultCapacity
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	interval := cfg.RateInterval
	if interval <= 0 {
		interval = ratelimit.DefaultInterval
	}

	log := logger.New(logger.FromEnv())
	httpClient := client.NewWith(client.Config{
		Timeout:    cfg.Timeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		UserAgent:  cfg.UserAgent,
		ProxyURL:   cfg.ProxyURL,
		Headers:    cfg.Headers,
	}).WithLogger(log.WithComponent(logger.ComponentClient))

	store := cache.New[string, any](capacity, ttl)
	limiter := ratelimit.New(interval)

	var dec *signature.Decryptor
	if cfg.SigningServiceURL != "" {
		dec = signature.New(cfg.SigningServiceURL, httpClient.HTTPClient, store)
	}

	ex := extract.New(httpClient, store, limiter, dec).
		WithLogger(log.WithComponent(logger.ComponentExtract))
	if cfg.Profile != "" {
		if p, ok := innertube.ProfileFor(cfg.Profile); ok {
			ex.Profile = p
		}
	}
	ex.Locale = innertube.Locale{HL: cfg.Language, GL: cfg.Region}.Or(innertube.DefaultLocale)

	return &Engine{
		client:    httpClient,
		store:     store,
		limiter:   limiter,
		extractor: ex,
		log:       log,
	}
}

// WithSigningService points the engine at an external stream-URL signing
// service. An empty endpoint disables signature resolution.
func (e *Engine) WithSigningService(endpoint string) *Engine {
	if endpoint == "" {
		e.extractor.Decryptor = nil
		return e
	}
	e.extractor.Decryptor = signature.New(endpoint, e.client.HTTPClient, e.store)
	return e
}

// WithSubtitleConverter registers an external caption-format converter.
func (e *Engine) WithSubtitleConverter(conv SubtitleConverter) *Engine {
	e.extractor.Subtitles = conv
	return e
}

// WithClientProfile selects the default client identity (WEB, ANDROID,
// IOS, TVHTML5). Unknown names keep the current profile.
func (e *Engine) WithClientProfile(name string) *Engine {
	if p, ok := innertube.ProfileFor(name); ok {
		e.extractor.Profile = p
	}
	return e
}

// WithLocale sets the default language/region pair. Per-call options
// still override it.
func (e *Engine) WithLocale(language, region string) *Engine {
	e.extractor.Locale = innertube.Locale{HL: language, GL: region}.Or(innertube.DefaultLocale)
	return e
}

// SetCookie sets the session cookie for subsequent requests.
func (e *Engine) SetCookie(cookie string) *Engine {
	e.client.SetCookie(cookie)
	return e
}

// SetVisitorID sets the visitor id for subsequent requests.
func (e *Engine) SetVisitorID(visitorID string) *Engine {
	e.client.SetVisitorID(visitorID)
	return e
}

// GetVideo resolves full metadata and formats for a video URL or bare id.
func (e *Engine) GetVideo(ctx context.Context, url string, opts *Options) (*types.VideoInfo, error) {
	return e.extractor.ExtractVideo(ctx, url, opts)
}

// GetPlaylist resolves playlist metadata and all member video ids.
func (e *Engine) GetPlaylist(ctx context.Context, url string, opts *Options) (*types.PlaylistInfo, error) {
	return e.extractor.ExtractPlaylist(ctx, url, opts)
}

// Search returns results for a query, capped by opts.MaxResults.
func (e *Engine) Search(ctx context.Context, query string, opts *SearchOptions) ([]types.SearchResult, error) {
	return e.extractor.Search(ctx, query, opts)
}

// GetSuggestions returns search completion suggestions for a partial query.
func (e *Engine) GetSuggestions(ctx context.Context, query string, opts *Options) ([]string, error) {
	return e.extractor.GetSuggestions(ctx, query, opts)
}

// GetRelatedSuggestions returns refinement queries for a full query.
func (e *Engine) GetRelatedSuggestions(ctx context.Context, query string, opts *Options) ([]string, error) {
	return e.extractor.GetRelatedSuggestions(ctx, query, opts)
}

// ClearCache drops every cached entry.
func (e *Engine) ClearCache() {
	e.store.Clear()
}

// IsValidURL reports whether a URL is structurally extractable.
func IsValidURL(url string) bool {
	return extract.IsValidURL(url)
}
