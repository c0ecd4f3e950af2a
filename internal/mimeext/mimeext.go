// Package mimeext derives container and codec information from the
// mimeType field of a stream format.
package mimeext

import (
	"strings"
)

const (
	// DefaultContainer is used when the MIME type is unknown or empty.
	DefaultContainer = "mp4"

	// ContainerM4A is the container for MP4 audio.
	ContainerM4A = "m4a"
	// ContainerWebM is the container for WebM media.
	ContainerWebM = "webm"

	// MimeVideoMP4 is the MIME type for MP4 video.
	MimeVideoMP4 = "video/mp4"
	// MimeAudioMP4 is the MIME type for MP4 audio.
	MimeAudioMP4 = "audio/mp4"
	// MimeVideoWebM is the MIME type for WebM video.
	MimeVideoWebM = "video/webm"
	// MimeAudioWebM is the MIME type for WebM audio.
	MimeAudioWebM = "audio/webm"
)

// base strips MIME parameters and surrounding whitespace.
func base(mime string) string {
	mime = strings.TrimSpace(mime)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

// Container returns the container name (without dot) for a given mime
// type. Falls back to the MIME subtype or mp4 if unknown.
func Container(mime string) string {
	b := base(mime)
	if b == "" {
		return DefaultContainer
	}
	switch b {
	case MimeVideoMP4:
		return DefaultContainer
	case MimeAudioMP4:
		return ContainerM4A
	case MimeVideoWebM, MimeAudioWebM:
		return ContainerWebM
	}
	parts := strings.Split(b, "/")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return DefaultContainer
}

// Codecs returns the value of the codecs parameter of a mime type, e.g.
// "avc1.4d401f, mp4a.40.2" for
// `video/mp4; codecs="avc1.4d401f, mp4a.40.2"`. Empty when absent.
func Codecs(mime string) string {
	_, params, found := strings.Cut(mime, ";")
	if !found {
		return ""
	}
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(strings.ToLower(key)) == "codecs" {
			return strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	return ""
}

// IsVideo reports whether the mime type declares a video track.
func IsVideo(mime string) bool {
	return strings.HasPrefix(base(mime), "video/")
}

// IsAudio reports whether the mime type declares an audio track.
func IsAudio(mime string) bool {
	return strings.HasPrefix(base(mime), "audio/")
}
