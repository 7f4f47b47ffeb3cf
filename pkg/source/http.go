package source

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/webring/pkg/cache"
	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/httputil"
	"github.com/matzehuels/webring/pkg/observability"
)

// defaultDirectoryTTL bounds how long a fetched directory is reused
// before the ring host is asked again.
const defaultDirectoryTTL = 15 * time.Minute

// HTTPSource fetches a directory document from a URL, keeping fetched
// bytes in an optional cache. The cache holds the raw document only;
// parsed or laid-out state never enters it.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Cache  cache.Cache
	TTL    time.Duration
}

// NewHTTPSource creates a source for the given URL. The cache may be nil,
// in which case every Load hits the network.
func NewHTTPSource(url string, client *http.Client, c cache.Cache) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{URL: url, Client: client, Cache: c, TTL: defaultDirectoryTTL}
}

// Load fetches and parses the directory, consulting the cache first.
func (s *HTTPSource) Load(ctx context.Context) (*Document, error) {
	if err := errors.ValidateURL(s.URL); err != nil {
		return nil, err
	}

	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data, extOf(s.URL))
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	key := cache.DirectoryKey(s.URL)

	if s.Cache != nil {
		data, ok, err := s.Cache.Get(ctx, key)
		if err == nil && ok {
			observability.Cache().OnCacheHit(ctx, key)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	data, err := httputil.Fetch(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		// A failed write only costs a refetch next time.
		if err := s.Cache.Set(ctx, key, data, s.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	return data, nil
}

// extOf guesses the document format from the URL path, defaulting to
// TOML when the path carries no known extension.
func extOf(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	switch ext := strings.ToLower(path.Ext(trimmed)); ext {
	case ".json", ".toml":
		return ext
	default:
		return ".toml"
	}
}
