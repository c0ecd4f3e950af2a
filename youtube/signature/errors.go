package signature

import (
	"errors"

	"github.com/ytget/ytx/errs"
)

// Machine codes carried by signing-service error payloads.
const (
	// ErrCodeSignatureExpired means the signed URLs this response was
	// built from are no longer valid.
	ErrCodeSignatureExpired = "SIGNATURE_EXPIRED"
	// ErrCodePlayerVersionExpired means the service no longer supports
	// the player version the request named.
	ErrCodePlayerVersionExpired = "PLAYER_VERSION_EXPIRED"
	// ErrCodeDecryptFailed is a generic service-side failure.
	ErrCodeDecryptFailed = "DECRYPT_FAILED"
	// ErrCodeBadResponse means the service answered with an unusable body.
	ErrCodeBadResponse = "BAD_RESPONSE"
	// ErrCodeUnreachable means the service could not be reached after retries.
	ErrCodeUnreachable = "SERVICE_UNREACHABLE"
)

// IsExpiry reports whether err carries one of the two expiry codes that
// invalidate the whole decryption cache.
func IsExpiry(err error) bool {
	var se *errs.SignatureDecryptionError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == ErrCodeSignatureExpired || se.Code == ErrCodePlayerVersionExpired
}
