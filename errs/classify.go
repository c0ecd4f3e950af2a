package errs

import "errors"

// IsRetryable reports whether the transport should retry after err.
func IsRetryable(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Transient
	}
	var rl *RateLimitedError
	return errors.As(err, &rl)
}

// IsExpected reports whether err is a normal negative outcome rather than
// unexpected breakage. Restriction errors are always expected.
func IsExpected(err error) bool {
	var ee *ExtractorError
	if errors.As(err, &ee) {
		return ee.Expected
	}
	return IsRestriction(err)
}

// IsRestriction reports whether err is one of the mutually exclusive
// content-restriction outcomes.
func IsRestriction(err error) bool {
	var (
		age    *AgeRestrictedError
		member *MembershipRequiredError
		prem   *PremiumRequiredError
		rental *RentalRequiredError
		live   *LiveStreamRestrictedError
		geo    *GeoRestrictionError
		priv   *PrivateVideoError
		gone   *VideoUnavailableError
	)
	return errors.As(err, &age) || errors.As(err, &member) ||
		errors.As(err, &prem) || errors.As(err, &rental) ||
		errors.As(err, &live) || errors.As(err, &geo) ||
		errors.As(err, &priv) || errors.As(err, &gone)
}

// IsCancelled reports whether err is a cancellation failure.
func IsCancelled(err error) bool {
	var ce *CancelledError
	return errors.As(err, &ce)
}
