// AngelaMos | 2026
// sanitize.go

package middleware

import (
	"html"
	"net/http"
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML element from user supplied text and
// returns plain text. The policy escapes what it keeps, so the result
// is unescaped once to stay stable across repeated edits.
func SanitizeText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// SanitizeQuery strips markup from query parameters before a view reads
// them. Request bodies are sanitized field by field in the views.
func SanitizeQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery == "" {
			next.ServeHTTP(w, r)
			return
		}

		query := r.URL.Query()
		clean := make(url.Values, len(query))
		for key, values := range query {
			for _, v := range values {
				clean.Add(SanitizeText(key), SanitizeText(v))
			}
		}

		r2 := r.Clone(r.Context())
		r2.URL.RawQuery = clean.Encode()
		next.ServeHTTP(w, r2)
	})
}
