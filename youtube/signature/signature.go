// Package signature obtains playable stream URLs by delegating cipher
// resolution to an external signing service. The cipher itself is
// versioned per platform player release and changes frequently, so it is
// treated as a replaceable external dependency; this package only
// orchestrates the call, the cache and the merge.
package signature

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/ytget/ytx/errs"
	"github.com/ytget/ytx/internal/cache"
	"github.com/ytget/ytx/internal/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 3
	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 8 * time.Second

	// CacheTTL applies to successful decryption responses.
	CacheTTL = time.Hour

	cacheKeyPrefix = "sig:"
)

// Decryptor calls the signing service and merges decrypted URL fields
// back into player responses. Successful responses are cached by request
// fingerprint; an expiry error clears the whole decryption cache, since
// a stale player version invalidates every entry.
type Decryptor struct {
	Endpoint   string
	HTTPClient *http.Client
	Retries    int
	Timeout    time.Duration
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	store *cache.Cache[string, any]
	log   *logger.ComponentLogger
}

// New creates a Decryptor posting to endpoint. store is the shared engine
// cache; httpClient may be nil to use a default.
func New(endpoint string, httpClient *http.Client, store *cache.Cache[string, any]) *Decryptor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Decryptor{
		Endpoint:   endpoint,
		HTTPClient: httpClient,
		Retries:    defaultRetries,
		Timeout:    defaultTimeout,
		BaseDelay:  defaultBaseDelay,
		MaxDelay:   defaultMaxDelay,
		store:      store,
		log:        logger.New(logger.FromEnv()).WithComponent(logger.ComponentSignature),
	}
}

// WithLogger replaces the component logger.
func (d *Decryptor) WithLogger(log *logger.ComponentLogger) *Decryptor {
	if log != nil {
		d.log = log
	}
	return d
}

// DecryptSignatures overwrites ciphered URL fields in playerResponse with
// their decrypted counterparts and returns the same map. On a cache hit
// no network call is made.
func (d *Decryptor) DecryptSignatures(ctx context.Context, playerResponse map[string]any, playerVersion string) (map[string]any, error) {
	key := fingerprint(playerResponse, playerVersion)

	if v, ok := d.store.Get(key); ok {
		if decrypted, ok := v.(map[string]any); ok {
			d.log.Debug("decryption cache hit", map[string]any{"key": key})
			merge(playerResponse, decrypted)
			return playerResponse, nil
		}
	}

	decrypted, err := d.callService(ctx, playerResponse, playerVersion)
	if err != nil {
		if IsExpiry(err) {
			// A stale player version invalidates every cached entry,
			// not just this one.
			d.log.Warn("player version expired, clearing decryption cache")
			d.store.RemoveWhere(func(k string) bool {
				return strings.HasPrefix(k, cacheKeyPrefix)
			})
		}
		return nil, err
	}

	merge(playerResponse, decrypted)
	d.store.SetTTL(key, any(decrypted), CacheTTL)
	return playerResponse, nil
}

// callService POSTs {response, playerVersion} with exponential backoff
// plus jitter. 429 and 5xx are retryable; cancellation is checked at the
// start of every attempt.
func (d *Decryptor) callService(ctx context.Context, playerResponse map[string]any, playerVersion string) (map[string]any, error) {
	body, err := json.Marshal(map[string]any{
		"response":      playerResponse,
		"playerVersion": playerVersion,
	})
	if err != nil {
		return nil, &errs.SignatureDecryptionError{Code: ErrCodeBadResponse, Message: "encode request", Err: err}
	}

	retries := d.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &errs.CancelledError{Err: err}
		}
		if attempt > 0 {
			select {
			case <-time.After(d.backoff(attempt)):
			case <-ctx.Done():
				return nil, &errs.CancelledError{Err: ctx.Err()}
			}
		}

		decrypted, retryable, err := d.post(ctx, body)
		if err == nil {
			return decrypted, nil
		}
		if !retryable {
			return nil, err
		}
		d.log.Debug("signing service retry", map[string]any{"attempt": attempt, "error": err.Error()})
		lastErr = err
	}
	return nil, &errs.SignatureDecryptionError{Code: ErrCodeUnreachable, Message: "signing service unreachable", Err: lastErr}
}

func (d *Decryptor) post(ctx context.Context, body []byte) (decrypted map[string]any, retryable bool, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.Endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, false, &errs.SignatureDecryptionError{Code: ErrCodeUnreachable, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, &errs.CancelledError{Err: ctx.Err()}
		}
		return nil, true, &errs.SignatureDecryptionError{Code: ErrCodeUnreachable, Message: "signing service request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, &errs.SignatureDecryptionError{
			Code:    ErrCodeUnreachable,
			Message: "signing service status " + resp.Status,
		}
	}

	var root map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		return nil, false, &errs.ParsingError{What: "signing service response", Err: err}
	}

	if envelope, ok := root["error"].(map[string]any); ok {
		code, _ := envelope["code"].(string)
		message, _ := envelope["message"].(string)
		if code == "" {
			code = ErrCodeDecryptFailed
		}
		return nil, false, &errs.SignatureDecryptionError{Code: code, Message: message}
	}
	return root, false, nil
}

// backoff is BaseDelay * 2^attempt capped at MaxDelay, plus up to 25% jitter.
func (d *Decryptor) backoff(attempt int) time.Duration {
	delay := d.BaseDelay << uint(attempt)
	if delay > d.MaxDelay || delay <= 0 {
		delay = d.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}

// fingerprint derives the deterministic cache key from the response's
// streaming data and the player version. json.Marshal emits map keys in
// sorted order, so equal responses hash equally.
func fingerprint(playerResponse map[string]any, playerVersion string) string {
	h := sha1.New()
	if sd, ok := playerResponse["streamingData"]; ok {
		if data, err := json.Marshal(sd); err == nil {
			h.Write(data)
		}
	}
	h.Write([]byte("|" + playerVersion))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// merge overwrites the URL-carrying fields of dst's streamingData with
// the decrypted counterparts at the same list positions. The signing
// service preserves position alignment between original and decrypted
// format lists.
func merge(dst map[string]any, decrypted map[string]any) {
	src := decrypted
	if sd, ok := decrypted["streamingData"].(map[string]any); ok {
		src = sd
	}
	sd, ok := dst["streamingData"].(map[string]any)
	if !ok {
		return
	}

	for _, listKey := range []string{"formats", "adaptiveFormats"} {
		dstList, _ := sd[listKey].([]any)
		srcList, _ := src[listKey].([]any)
		for i := range dstList {
			if i >= len(srcList) {
				break
			}
			dstFmt, ok1 := dstList[i].(map[string]any)
			srcFmt, ok2 := srcList[i].(map[string]any)
			if !ok1 || !ok2 {
				continue
			}
			for _, field := range []string{"url", "signatureCipher", "cipher", "initRange", "indexRange"} {
				if v, ok := srcFmt[field]; ok {
					dstFmt[field] = v
				}
			}
		}
	}

	for _, field := range []string{"dashManifestUrl", "hlsManifestUrl"} {
		if v, ok := src[field].(string); ok && v != "" {
			sd[field] = v
		}
	}
}
