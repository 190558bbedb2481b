package config

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "***"

// keywordPassword matches password=... in a keyword/value connection string.
var keywordPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// RedactURL replaces the password in a connection URL or keyword/value DSN
// with "***". Strings without a password are returned unchanged.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		return keywordPassword.ReplaceAllString(raw, "${1}"+redacted)
	}

	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}

	if _, ok := u.User.Password(); !ok {
		return raw
	}

	// Splice into the raw text so the rest of the URL keeps its original escaping.
	start := strings.Index(raw, "://") + len("://")
	rest := raw[start:]

	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}

	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return raw
	}

	colon := strings.Index(rest[:at], ":")
	if colon < 0 {
		return raw
	}

	return raw[:start+colon+1] + redacted + raw[start+at:]
}

// RedactKey masks an API key, keeping the last four characters when the key
// is long enough for that to be safe.
func RedactKey(key string) string {
	const visible = 4

	if len(key) <= 4*visible {
		return redacted
	}

	return redacted + key[len(key)-visible:]
}
