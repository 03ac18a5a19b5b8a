package teamdirectory

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errDirectoryTransient)
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
