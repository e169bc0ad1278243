package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"allowed punctuation", "my file (v2)_final-1.txt", "my file (v2)_final-1.txt"},
		{"unicode and markup stripped", "héllo世界<script>.txt", "hlloscript.txt"},
		{"path separators stripped", "../../etc/passwd", "....etcpasswd"},
		{"shell metacharacters stripped", "a;rm -rf $HOME.txt", "arm -rf HOME.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_NeverEmpty(t *testing.T) {
	for _, in := range []string{"", "世界", "<>/\\|:*?", "...", ". ."} {
		got := SanitizeFilename(in)
		assert.NotEmpty(t, got, "input %q", in)
		assert.True(t, strings.HasPrefix(got, "file_"), "input %q got %q", in, got)
		assert.NotEqual(t, strings.Trim(got, ". "), "", "input %q", in)
	}
}

func TestSanitizeFilename_PlaceholdersAreUnique(t *testing.T) {
	assert.NotEqual(t, SanitizeFilename(""), SanitizeFilename(""))
}

func TestStampedFilename(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 45, 0, time.UTC)

	got := StampedFilename(now, "héllo世界<script>.txt")
	assert.Regexp(t, `^\d{8}T\d{6}_[A-Za-z0-9._() -]+$`, got)
	assert.Equal(t, "20250601T093045_hlloscript.txt", got)
}

func TestStampedFilename_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, 6, 1, 9, 30, 45, 0, loc)

	got := StampedFilename(now, "a.txt")
	assert.Equal(t, "20250601T043045_a.txt", got)
}

func TestStampedFilename_EmptyInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 45, 0, time.UTC)
	got := StampedFilename(now, "")
	assert.Regexp(t, `^\d{8}T\d{6}_file_[A-Za-z0-9-]+$`, got)
}
