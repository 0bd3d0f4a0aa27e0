package classify

import (
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		size int64
		want entities.ReplyKind
	}{
		{"mp4 at cap", "mp4", 50 * 1024 * 1024, entities.ReplyVideo},
		{"mp4 one byte over cap", "mp4", 50*1024*1024 + 1, entities.ReplyDocument},
		{"mov small", ".mov", 1024, entities.ReplyVideo},
		{"mkv upper case", ".MKV", 10, entities.ReplyVideo},
		{"empty video", "mp4", 0, entities.ReplyVideo},
		{"png small", "png", 1, entities.ReplyPhoto},
		{"png huge", "png", 200 * 1024 * 1024, entities.ReplyPhoto},
		{"jpeg", "JPEG", 4096, entities.ReplyPhoto},
		{"jpg with dot", ".jpg", 4096, entities.ReplyPhoto},
		{"pdf", "pdf", 10, entities.ReplyDocument},
		{"pdf huge", "pdf", math.MaxInt64, entities.ReplyDocument},
		{"webm is not a video reply", "webm", 10, entities.ReplyDocument},
		{"mp3", "mp3", 10, entities.ReplyDocument},
		{"no extension", "", 10, entities.ReplyDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ext, tt.size))
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0.0B"},
		{1, "1.0B"},
		{512, "512.0B"},
		{1023, "1023.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1024 * 1024, "1.0MB"},
		{1024*1024 - 1, "1.0MB"},
		{50 * 1024 * 1024, "50.0MB"},
		{5 * 1024 * 1024 * 1024, "5.0GB"},
		{1024 * 1024 * 1024 * 1024, "1.0TB"},
		{2048 * 1024 * 1024 * 1024 * 1024, "2048.0TB"},
		{-5, "0.0B"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.n), "HumanSize(%d)", tt.n)
	}
}

func TestHumanSize_SingleUnitBelow1024(t *testing.T) {
	pattern := regexp.MustCompile(`^(\d+\.\d)(B|KB|MB|GB|TB)$`)

	values := []int64{0, 1, 999, 1023, 1024, 1025, 1048575, 1048576, 1073741823, 1099511627775}
	for n := int64(1); n < math.MaxInt64/7; n *= 7 {
		values = append(values, n, n-1, n+1)
	}

	for _, n := range values {
		out := HumanSize(n)
		m := pattern.FindStringSubmatch(out)
		require.NotNil(t, m, "HumanSize(%d) = %q", n, out)

		magnitude, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		if m[2] != "TB" {
			assert.Less(t, magnitude, 1024.0, "HumanSize(%d) = %q", n, out)
		}
	}
}
