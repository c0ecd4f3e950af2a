package innertube

import "strings"

// Profile is a declared client identity sent in the context.client block.
// Each profile unlocks different response shapes and restriction
// behavior on the API side.
type Profile struct {
	Name             string
	Version          string
	ClientCode       string // numeric X-YouTube-Client-Name code
	UserAgent        string
	OSName           string
	OSVersion        string
	SDKVersion       int
	DeviceModel      string
	RequiresPlayerJS bool
}

// The static profile table. Versions are pinned; the protocol surface is
// treated as fixed, versioned data.
var profiles = map[string]Profile{
	"WEB": {
		Name:             "WEB",
		Version:          "2.20250312.04.00",
		ClientCode:       "1",
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
		RequiresPlayerJS: true,
	},
	"ANDROID": {
		Name:       "ANDROID",
		Version:    "20.10.38",
		ClientCode: "3",
		UserAgent:  "com.google.android.youtube/20.10.38 (Linux; U; Android 11) gzip",
		OSName:     "Android",
		OSVersion:  "11",
		SDKVersion: 30,
	},
	"IOS": {
		Name:        "IOS",
		Version:     "20.10.4",
		ClientCode:  "5",
		UserAgent:   "com.google.ios.youtube/20.10.4 (iPhone16,2; U; CPU iOS 17_5_1 like Mac OS X)",
		OSName:      "iOS",
		OSVersion:   "17.5.1.21F90",
		DeviceModel: "iPhone16,2",
	},
	"TVHTML5": {
		Name:             "TVHTML5",
		Version:          "7.20250312.16.00",
		ClientCode:       "7",
		UserAgent:        "Mozilla/5.0 (ChromiumStylePlatform) Cobalt/Version",
		RequiresPlayerJS: true,
	},
}

// DefaultProfile is used when no profile is selected.
const DefaultProfile = "WEB"

// ProfileFor returns the profile for name (case-insensitive).
func ProfileFor(name string) (Profile, bool) {
	p, ok := profiles[strings.ToUpper(strings.TrimSpace(name))]
	return p, ok
}

// ProfileNames lists the recognized profile names.
func ProfileNames() []string {
	return []string{"WEB", "ANDROID", "IOS", "TVHTML5"}
}

// Locale is the per-call language/region pair. It is carried explicitly
// through the call chain; nothing mutates shared configuration.
type Locale struct {
	HL string // language, e.g. "en"
	GL string // region, e.g. "US"
}

// Or returns l with empty fields filled from fallback.
func (l Locale) Or(fallback Locale) Locale {
	if l.HL == "" {
		l.HL = fallback.HL
	}
	if l.GL == "" {
		l.GL = fallback.GL
	}
	return l
}

// DefaultLocale is applied when neither the engine nor the call supply one.
var DefaultLocale = Locale{HL: "en", GL: "US"}

// contextClient builds the context.client block for this profile.
func (p Profile) contextClient(loc Locale) map[string]any {
	client := map[string]any{
		"clientName":    p.Name,
		"clientVersion": p.Version,
	}
	if loc.HL != "" {
		client["hl"] = loc.HL
	}
	if loc.GL != "" {
		client["gl"] = loc.GL
	}
	if p.OSName != "" {
		client["osName"] = p.OSName
		client["osVersion"] = p.OSVersion
	}
	if p.SDKVersion > 0 {
		client["androidSdkVersion"] = p.SDKVersion
	}
	if p.DeviceModel != "" {
		client["deviceModel"] = p.DeviceModel
	}
	if p.UserAgent != "" {
		client["userAgent"] = p.UserAgent
	}
	return client
}

// Headers returns the profile-specific request headers.
func (p Profile) Headers() map[string]string {
	h := map[string]string{
		"X-YouTube-Client-Version": p.Version,
		"Origin":                   Origin,
		"Referer":                  Origin + "/",
	}
	if p.ClientCode != "" {
		h["X-YouTube-Client-Name"] = p.ClientCode
	}
	if p.UserAgent != "" {
		h["User-Agent"] = p.UserAgent
	}
	return h
}
