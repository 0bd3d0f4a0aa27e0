// Package classify picks the reply channel for a downloaded file and
// formats file sizes for captions
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
)

// MaxVideoBytes is the largest file Telegram accepts as a video reply
const MaxVideoBytes = 50 * 1024 * 1024

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// Classify returns the reply channel for a file with extension ext
// (case-insensitive, leading dot optional) and size bytes. Videos over
// MaxVideoBytes fall back to documents; photos have no cap.
func Classify(ext string, size int64) entities.ReplyKind {
	switch normalizeExt(ext) {
	case "mp4", "mov", "mkv":
		if size <= MaxVideoBytes {
			return entities.ReplyVideo
		}
		return entities.ReplyDocument
	case "jpg", "jpeg", "png":
		return entities.ReplyPhoto
	default:
		return entities.ReplyDocument
	}
}

// HumanSize formats n bytes with one decimal place in the first unit of
// B, KB, MB, GB where the shown magnitude stays below 1024, or in TB.
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}

	size := float64(n)
	for _, unit := range sizeUnits {
		// compare the rounded value so 1023.96KB is shown as 1.0MB
		if math.Round(size*10) < 1024*10 {
			return fmt.Sprintf("%.1f%s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1fTB", size)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
