package openai

import (
	"net/url"
	"strings"
)

// normalizeBaseURL accepts the common ways people paste an OpenAI-style
// endpoint and reduces them to the /v1 root the SDK expects.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	path := strings.TrimRight(parsed.Path, "/")
	if strings.HasSuffix(path, "/chat/completions") {
		path = strings.TrimSuffix(path, "/chat/completions")
	}
	path = strings.TrimRight(path, "/")

	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path = path + "/v1"
		}
	}
	for strings.Contains(path, "/v1/v1") {
		path = strings.ReplaceAll(path, "/v1/v1", "/v1")
	}

	parsed.Path = path
	return parsed.String()
}
