package middleware

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Compress wraps a handler with gzip response compression. Responses below
// minSize bytes are sent as-is.
func Compress(h http.Handler, minSize int) (http.Handler, error) {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(minSize),
		gzhttp.ContentTypes([]string{"application/json", "text/plain"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build gzip wrapper: %w", err)
	}
	return wrapper(h), nil
}
