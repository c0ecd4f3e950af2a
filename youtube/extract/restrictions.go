package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/ytget/ytx/errs"
)

var priceRe = regexp.MustCompile(`([$€£])\s*([0-9]+(?:[.,][0-9]{2})?)|([0-9]+(?:[.,][0-9]{2})?)\s*([A-Z]{3})`)

// currencyNames maps the symbols the offer texts use to ISO codes.
var currencyNames = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
}

// checkGeoRestriction detects country-based unavailability and carries
// the allowed-country list the response exposes. The platform does not
// publish a blocked list; it stays empty.
func (e *Extractor) checkGeoRestriction(playerResponse map[string]any) error {
	_, reason := playability(playerResponse)
	lower := strings.ToLower(reason)
	if !strings.Contains(lower, "in your country") &&
		!strings.Contains(lower, "in your region") &&
		!strings.Contains(lower, "geograph") {
		return nil
	}
	return &errs.GeoRestrictionError{
		Reason:           reason,
		AllowedCountries: availableCountries(playerResponse),
	}
}

// classifyRestrictions runs the fine-grained checks in fixed priority
// order; the first match wins, so at most one restriction is signaled
// per response.
func (e *Extractor) classifyRestrictions(playerResponse map[string]any) error {
	status, reason := playability(playerResponse)
	if status == "" || status == "OK" {
		return nil
	}
	lower := strings.ToLower(reason)

	if status == "LOGIN_REQUIRED" && strings.Contains(lower, "age") {
		return &errs.AgeRestrictedError{RequiredAge: 18}
	}
	if strings.Contains(lower, "members-only") || strings.Contains(lower, "members only") ||
		strings.Contains(lower, "membership") {
		return &errs.MembershipRequiredError{MembershipType: membershipType(lower)}
	}
	if strings.Contains(lower, "premium") {
		return &errs.PremiumRequiredError{}
	}
	if strings.Contains(lower, "rent") || strings.Contains(lower, "purchase") ||
		strings.Contains(lower, "paid") {
		price, currency := rentalOffer(playerResponse, reason)
		return &errs.RentalRequiredError{Price: price, Currency: currency}
	}
	return liveRestriction(playerResponse, status)
}

func membershipType(lowerReason string) string {
	if strings.Contains(lowerReason, "channel") {
		return "channel"
	}
	return ""
}

// rentalOffer pulls the price out of the offer screen when present, or
// out of the reason text as a fallback. Both fields stay empty when the
// platform omits the amount.
func rentalOffer(playerResponse map[string]any, reason string) (price, currency string) {
	text := reason
	if ps, ok := playerResponse["playabilityStatus"].(map[string]any); ok {
		if offer, ok := findFirst(ps, "playerLegacyDesktopYpcOfferRenderer"); ok {
			if t, ok := offer["offerDescription"].(string); ok && t != "" {
				text = t
			}
		}
	}
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	if m[1] != "" {
		return m[2], currencyNames[m[1]]
	}
	return m[3], m[4]
}

// liveRestriction classifies unplayable live streams into the two
// explicit outcomes: upcoming (with start time when announced) or ended.
func liveRestriction(playerResponse map[string]any, status string) error {
	if status != "LIVE_STREAM_OFFLINE" {
		return nil
	}
	if _, end := liveBroadcastTimes(playerResponse); !end.IsZero() {
		return &errs.LiveStreamRestrictedError{State: errs.LiveEnded}
	}
	start := scheduledStartTime(playerResponse)
	if start.IsZero() {
		start, _ = liveBroadcastTimes(playerResponse)
	}
	return &errs.LiveStreamRestrictedError{State: errs.LiveUpcoming, StartTime: start}
}

// scheduledStartTime reads the offline slate's announced start, a unix
// timestamp in seconds.
func scheduledStartTime(playerResponse map[string]any) time.Time {
	ps, ok := playerResponse["playabilityStatus"].(map[string]any)
	if !ok {
		return time.Time{}
	}
	slate, ok := findFirst(ps, "liveStreamOfflineSlateRenderer")
	if !ok {
		return time.Time{}
	}
	secs := intOf(slate["scheduledStartTime"])
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// liveBroadcastTimes reads the microformat broadcast window.
func liveBroadcastTimes(playerResponse map[string]any) (start, end time.Time) {
	details, ok := findFirst(playerResponse, "liveBroadcastDetails")
	if !ok {
		return
	}
	if s, ok := details["startTimestamp"].(string); ok {
		start, _ = time.Parse(time.RFC3339, s)
	}
	if s, ok := details["endTimestamp"].(string); ok {
		end, _ = time.Parse(time.RFC3339, s)
	}
	return
}

// availableCountries reads the allowed-country list from the microformat.
func availableCountries(playerResponse map[string]any) []string {
	mf, ok := findFirst(playerResponse, "playerMicroformatRenderer")
	if !ok {
		return nil
	}
	list, ok := mf["availableCountries"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
