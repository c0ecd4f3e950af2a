package formats

import (
	"strings"

	"github.com/ytget/ytx/internal/mimeext"
	"github.com/ytget/ytx/types"
)

// HasVideo reports whether the format carries a video track.
func HasVideo(f types.Format) bool {
	return mimeext.IsVideo(f.MimeType) && !strings.Contains(f.Codecs, "audio")
}

// HasAudio reports whether the format carries an audio track. Progressive
// video formats declare their audio codec alongside the video codec.
func HasAudio(f types.Format) bool {
	if mimeext.IsAudio(f.MimeType) {
		return true
	}
	// A progressive format lists two codecs, e.g. "avc1.64001F, mp4a.40.2".
	return mimeext.IsVideo(f.MimeType) && strings.Contains(f.Codecs, ",")
}

// IsCiphered reports whether the format still needs signature decryption
// before its URL is fetchable.
func IsCiphered(f types.Format) bool {
	return strings.TrimSpace(f.URL) == "" && strings.TrimSpace(f.SignatureCipher) != ""
}
