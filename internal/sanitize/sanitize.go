// Package sanitize neutralizes characters that could be used for log
// injection in user-controlled strings (model ids, URLs, file names) before they
// reach a log line. Grounded on the teacher's
// pkg/internal/utils.SanitizeForLog call sites (e.g.
// pkg/inference/models/service.go).
package sanitize

import "strings"

// ForLog replaces '\n' and '\r' in s with spaces. A positive limit caps how
// many bytes of the result are kept (followed by "..."); a non-positive
// limit means "no limit".
func ForLog(s string, limit int) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	if limit > 0 && len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
