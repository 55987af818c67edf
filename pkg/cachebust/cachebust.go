package cachebust

import (
	"strconv"
	"strings"
	"time"
)

// token is computed once when the process starts. Every asset URL handed out
// during the lifetime of the process carries the same value.
var token = strconv.FormatInt(time.Now().UnixMilli(), 10)

// Global returns the process-wide cache-bust token.
func Global() string {
	return token
}

// ApplyToURL strips any query string from url and appends the cache-bust
// token as the "v" parameter. An empty url stays empty.
func ApplyToURL(url string) string {
	if url == "" {
		return ""
	}
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	return url + "?v=" + token
}
