package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout is the sortable UTC prefix given to every saved upload.
const timestampLayout = "20060102T150405"

// SanitizeFilename strips a client-supplied filename down to a conservative
// allow-set: alphanumerics plus "-_.() " and space. If nothing survives, a
// generated placeholder is substituted so the result is never empty.
func SanitizeFilename(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.' || r == '(' || r == ')' || r == ' ':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if strings.Trim(name, ". ") == "" {
		return "file_" + uuid.NewString()
	}
	return name
}

// StampedFilename sanitizes raw and prepends a YYYYMMDDTHHMMSS_ UTC prefix.
// The prefix avoids collisions with existing files and keeps uploads in
// chronological order within a directory.
func StampedFilename(now time.Time, raw string) string {
	return now.UTC().Format(timestampLayout) + "_" + SanitizeFilename(raw)
}
