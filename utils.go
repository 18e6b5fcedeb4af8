package mpmedia

import (
	nurl "net/url"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var (
	rxStyleURL      = regexp.MustCompile(`(?i)^url\((.+)\)$`)
	rxEscapedScheme = regexp.MustCompile(`(?i)^https?%3A%2F%2F`)
)

// ValidateReference makes sure ref points to an article on the platform.
func ValidateReference(ref string) error {
	if !strings.HasPrefix(ref, ArticlePrefix) {
		return newError(ErrInvalidReference, ref, nil)
	}
	return nil
}

// isHTTPURL checks if s is an absolute http or https URL.
func isHTTPURL(s string) bool {
	u, err := nurl.ParseRequestURI(s)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// normalizeURL converts url into an absolute URL. Scheme relative URLs
// always get https, any other relative form is resolved against base.
func normalizeURL(url string, base *nurl.URL) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	// Some attributes keep the whole URL percent-encoded
	if rxEscapedScheme.MatchString(url) {
		if unescaped, err := nurl.PathUnescape(url); err == nil {
			url = unescaped
		}
	}

	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}

	// If it is already an absolute URL, return it as it is
	tmp, err := nurl.Parse(url)
	if err != nil {
		return url
	}

	if tmp.Scheme != "" || base == nil {
		return url
	}

	return base.ResolveReference(tmp).String()
}

// sanitizeStyleURL sanitizes the URL in CSS by removing `url()`,
// quotation mark and trailing slash
func sanitizeStyleURL(url string) string {
	cssURL := rxStyleURL.ReplaceAllString(url, "$1")
	cssURL = strings.TrimSpace(cssURL)

	if strings.HasPrefix(cssURL, `"`) {
		return strings.Trim(cssURL, `"`)
	}

	if strings.HasPrefix(cssURL, `'`) {
		return strings.Trim(cssURL, `'`)
	}

	return cssURL
}

// decodeUTF8 reads content as UTF-8 no matter what the server declared.
// Invalid sequences are replaced with U+FFFD.
func decodeUTF8(content []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "�")
	}
	return string(decoded)
}
