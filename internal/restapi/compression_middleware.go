package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// CompressionConfig holds configuration options for response compression
type CompressionConfig struct {
	// MinSize is the smallest response body, in bytes, that is compressed.
	MinSize int
	// Level is the gzip level, 1-9.
	Level int
	// ContentTypes limits compression to these media types. Empty compresses
	// every type gzhttp considers compressible.
	ContentTypes []string
}

// DefaultCompressionConfig compresses JSON bodies of 1KB and more. Trip count
// listings for a whole feed are large and repetitive.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:      1024,
		Level:        6,
		ContentTypes: []string{"application/json"},
	}
}

// NewCompressionMiddleware creates a compression middleware with the given configuration
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(config.ContentTypes) > 0 {
			wrapper, err := gzhttp.NewWrapper(
				gzhttp.MinSize(config.MinSize),
				gzhttp.CompressionLevel(config.Level),
				gzhttp.ContentTypes(config.ContentTypes),
			)
			if err == nil {
				return wrapper(next)
			}
		} else {
			wrapper, err := gzhttp.NewWrapper(
				gzhttp.MinSize(config.MinSize),
				gzhttp.CompressionLevel(config.Level),
			)
			if err == nil {
				return wrapper(next)
			}
		}
		// Fall back to the library defaults if the configuration is rejected
		return gzhttp.GzipHandler(next)
	}
}

// CompressionMiddleware applies gzip compression with default settings
func CompressionMiddleware(next http.Handler) http.Handler {
	return NewCompressionMiddleware(DefaultCompressionConfig())(next)
}
