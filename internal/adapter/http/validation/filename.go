// Package validation sanitizes user-supplied filenames before they are
// echoed back in HTTP headers.
package validation

import (
	"fmt"
	"strings"
)

// dangerousChars are replaced in filenames: they can break the quoting of
// Content-Disposition or inject headers/paths.
var dangerousChars = map[rune]bool{
	'"':  true,
	'\\': true,
	'/':  true,
	':':  true,
	'\n': true,
	'\r': true,
}

// SanitizeFilename replaces dangerous and control characters with
// underscores, preserving Unicode text. Empty input degrades to "file".
func SanitizeFilename(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	for _, r := range name {
		if r < 32 || r == 127 || dangerousChars[r] {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(r)
		}
	}

	result := strings.TrimSpace(sb.String())
	if strings.Trim(result, "_") == "" {
		return "file"
	}
	return result
}

// AttachmentDisposition returns a Content-Disposition value that downloads
// the file under a sanitized name.
func AttachmentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", SanitizeFilename(filename))
}
