// Package errs defines the typed failure taxonomy shared by the transport,
// the signature decryptor, and all extractors. Callers branch on concrete
// types with errors.As, or on the retryable/expected classifiers below.
package errs

import (
	"fmt"
	"time"
)

// LiveStreamState distinguishes the two restricted live outcomes.
type LiveStreamState string

const (
	// LiveUpcoming means the stream has not started yet.
	LiveUpcoming LiveStreamState = "upcoming"
	// LiveEnded means the stream is over and no VOD is playable yet.
	LiveEnded LiveStreamState = "ended"
)

// NetworkError is a transport-level failure. Transient ones (timeouts,
// connection failures) are retried internally by the client.
type NetworkError struct {
	URL       string
	Transient bool
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RateLimitedError indicates HTTP 429. RetryAfter carries the
// server-supplied delay when present, zero otherwise.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// ParsingError indicates malformed JSON or an unexpected response shape.
// Never retried.
type ParsingError struct {
	What string
	Err  error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("parsing %s failed", e.What)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// AuthenticationError indicates the endpoint demands a signed-in session.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason != "" {
		return "login required: " + e.Reason
	}
	return "login required"
}

// VideoUnavailableError indicates the video was deleted or removed.
type VideoUnavailableError struct {
	VideoID string
	Reason  string
}

func (e *VideoUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("video %s unavailable: %s", e.VideoID, e.Reason)
	}
	return fmt.Sprintf("video %s unavailable", e.VideoID)
}

// PrivateVideoError indicates the video exists but is private.
type PrivateVideoError struct {
	VideoID string
}

func (e *PrivateVideoError) Error() string {
	return fmt.Sprintf("video %s is private", e.VideoID)
}

// GeoRestrictionError carries the country lists parsed from the response.
// Either list may be empty when the platform omits it.
type GeoRestrictionError struct {
	Reason           string
	AllowedCountries []string
	BlockedCountries []string
}

func (e *GeoRestrictionError) Error() string {
	return "geo restricted: " + e.Reason
}

// AgeRestrictedError indicates an age gate.
type AgeRestrictedError struct {
	RequiredAge int
}

func (e *AgeRestrictedError) Error() string {
	return fmt.Sprintf("age restricted (requires age %d)", e.RequiredAge)
}

// MembershipRequiredError indicates members-only content.
type MembershipRequiredError struct {
	MembershipType string
}

func (e *MembershipRequiredError) Error() string {
	if e.MembershipType != "" {
		return "membership required: " + e.MembershipType
	}
	return "membership required"
}

// PremiumRequiredError indicates content gated behind a premium plan.
type PremiumRequiredError struct{}

func (e *PremiumRequiredError) Error() string { return "premium required" }

// RentalRequiredError indicates pay-to-watch content. Price/Currency are
// empty when the response omits the offer details.
type RentalRequiredError struct {
	Price    string
	Currency string
}

func (e *RentalRequiredError) Error() string {
	if e.Price != "" {
		return fmt.Sprintf("rental required (%s %s)", e.Price, e.Currency)
	}
	return "rental required"
}

// LiveStreamRestrictedError indicates an unplayable live stream, with an
// explicit upcoming/ended state. StartTime is set for upcoming streams
// when the platform announces one.
type LiveStreamRestrictedError struct {
	State     LiveStreamState
	StartTime time.Time
}

func (e *LiveStreamRestrictedError) Error() string {
	if e.State == LiveUpcoming && !e.StartTime.IsZero() {
		return fmt.Sprintf("live stream is upcoming, starts at %s", e.StartTime.Format(time.RFC3339))
	}
	return fmt.Sprintf("live stream is %s", e.State)
}

// SignatureDecryptionError is raised by the signing-service workflow and
// carries the machine code from the service's error payload.
type SignatureDecryptionError struct {
	Code    string
	Message string
	Err     error
}

func (e *SignatureDecryptionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("signature decryption failed: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("signature decryption failed: %s", e.Message)
}

func (e *SignatureDecryptionError) Unwrap() error { return e.Err }

// ExtractorError is the generic non-retryable failure. Expected marks
// normal negative outcomes (bad URL, missing sidebar) as opposed to
// unexpected breakage.
type ExtractorError struct {
	Message  string
	Expected bool
	Err      error
}

func (e *ExtractorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExtractorError) Unwrap() error { return e.Err }

// CancelledError indicates the caller's context was cancelled mid-call.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string { return "operation cancelled" }

func (e *CancelledError) Unwrap() error { return e.Err }
