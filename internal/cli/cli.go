// Package cli implements the webring command-line interface.
package cli

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/webring/pkg/buildinfo"
	"github.com/matzehuels/webring/pkg/cache"
	"github.com/matzehuels/webring/pkg/camera"
	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/layout"
	"github.com/matzehuels/webring/pkg/sim"
	"github.com/matzehuels/webring/pkg/site"
	"github.com/matzehuels/webring/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "webring"

	// defaultSettleTimeout bounds how long the layout command waits for
	// the simulation to settle (seconds).
	defaultSettleTimeout = 30
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "webring",
		Short:        "Webring lays out member rings with a force simulation",
		Long:         `Webring loads a ring directory, arranges the member sites in a force-directed layout, and can view the ring interactively, export it as an image, or serve it over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Directory Loading
// =============================================================================

// directoryFlags holds the shared source selection flags.
type directoryFlags struct {
	url      string
	mongoURI string
	mongoDB  string
	mongoCol string
	noCache  bool
	sortKey  string
	desc     bool
	seed     uint64
}

// register adds the shared flags to cmd.
func (f *directoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "fetch the directory from a URL instead of a file")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "load sites from a MongoDB instance")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().StringVar(&f.mongoCol, "mongo-collection", "sites", "MongoDB collection name")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable directory caching")
	cmd.Flags().StringVar(&f.sortKey, "sort", "", "ring order: name, group, or year")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "reverse the ring order")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for initial placement (0 picks one)")
}

// loadDirectory resolves the source from flags and positional args, loads
// the document, and applies the requested ring order.
func (c *CLI) loadDirectory(ctx context.Context, f directoryFlags, args []string) (*source.Document, error) {
	src, cleanup, err := c.newSource(ctx, f, args)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	if f.sortKey != "" {
		key := site.SortKey(f.sortKey)
		if !site.ValidSortKeys[key] {
			return nil, errors.New(errors.ErrCodeInvalidSort, "unknown sort key %q (want name, group, or year)", f.sortKey)
		}
		site.Sort(doc.Sites, key, f.desc)
	}
	return doc, nil
}

// layoutOptions builds the options shared by the layout, view, and serve
// commands. Force and camera overrides from the directory document are
// applied over the defaults.
func (c *CLI) layoutOptions(doc *source.Document, width, height float64, seed uint64) layout.Options {
	return layout.Options{
		Width:  width,
		Height: height,
		Sim:    doc.Forces.Apply(sim.DefaultConfig()),
		Camera: doc.Camera.Apply(camera.DefaultConfig()),
		Rand:   newRand(seed),
		Logger: c.Logger,
	}
}

func (c *CLI) newSource(ctx context.Context, f directoryFlags, args []string) (source.Source, func(), error) {
	noop := func() {}

	switch {
	case f.mongoURI != "":
		src, err := source.NewMongoSource(ctx, source.MongoOptions{
			URI:        f.mongoURI,
			Database:   f.mongoDB,
			Collection: f.mongoCol,
		})
		if err != nil {
			return nil, noop, err
		}
		return src, func() { _ = src.Close(ctx) }, nil

	case f.url != "":
		dirCache, err := newCache(f.noCache)
		if err != nil {
			return nil, noop, err
		}
		src := source.NewHTTPSource(f.url, &http.Client{Timeout: 30 * time.Second}, dirCache)
		return src, func() { _ = dirCache.Close() }, nil

	case len(args) > 0:
		if err := errors.ValidatePath(args[0]); err != nil {
			return nil, noop, err
		}
		return source.NewFileSource(args[0]), noop, nil

	default:
		return nil, noop, errors.New(errors.ErrCodeInvalidInput, "no directory given: pass a file, --url, or --mongo-uri")
	}
}

// newRand builds the placement source from the seed flag.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv("WEBRING_REDIS_ADDR"); addr != "" {
		c, err := cache.NewRedisCache(context.Background(), cache.RedisOptions{Addr: addr})
		if err == nil {
			return c, nil
		}
		// Fall through to the file cache when Redis is unreachable.
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/webring/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
