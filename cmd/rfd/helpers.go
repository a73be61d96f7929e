package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/abelbrown/rfd/internal/config"
	"github.com/abelbrown/rfd/internal/fetch"
	"github.com/abelbrown/rfd/internal/filter"
	"github.com/abelbrown/rfd/internal/logging"
)

// Output formats accepted by --output.
const (
	outputDefault = "default"
	outputJSON    = "json"
)

// Thread sources accepted by --source.
const (
	sourceAPI = "api"
	sourceRSS = "rss"
)

// threadSource is what the thread commands read from.
type threadSource interface {
	Topics(ctx context.Context, forumID, pages int) ([]fetch.Topic, error)
	BaseURL() string
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	output  string
	noColor bool
	debug   bool
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.output, "output", outputDefault, "output format: default or json")
	fs.BoolVar(&c.noColor, "no-color", false, "disable coloured output")
	fs.BoolVar(&c.debug, "debug", false, "log debug messages to stderr")
}

func (c *commonFlags) json() bool { return c.output == outputJSON }

// color reports whether decorated output may use colour. NO_COLOR is
// honoured as well as the flag.
func (c *commonFlags) color() bool {
	return !c.noColor && os.Getenv("NO_COLOR") == ""
}

func (c *commonFlags) validate() error {
	switch c.output {
	case "", outputDefault, outputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (want default or json)", c.output)
	}
}

// listingFlags select and order a thread listing.
type listingFlags struct {
	forumID int
	pages   int
	sortBy  string
	source  string
}

func (l *listingFlags) register(fs *pflag.FlagSet, defaultPages int) {
	fs.IntVar(&l.forumID, "forum-id", 9, "the forum id number")
	fs.IntVar(&l.pages, "pages", defaultPages, "number of pages to fetch")
	fs.StringVar(&l.sortBy, "sort-by", "", fmt.Sprintf("sort threads by one of %v", filter.SortKeys))
	fs.StringVar(&l.source, "source", sourceAPI, "thread source: api or rss")
}

// validate checks the flags before any network activity and returns the
// parsed sort key.
func (l *listingFlags) validate() (filter.SortKey, error) {
	key, err := filter.ParseSortKey(l.sortBy)
	if err != nil {
		return "", err
	}
	if l.pages < 1 {
		return "", fmt.Errorf("--pages must be at least 1, got %d", l.pages)
	}
	if l.source != sourceAPI && l.source != sourceRSS {
		return "", fmt.Errorf("invalid source %q (want api or rss)", l.source)
	}
	return key, nil
}

// newFlagSet creates a subcommand flag set that reports errors instead of
// exiting, so run can map them to an exit status.
func (a *app) newFlagSet(name, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: rfd %s %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// setup loads configuration and initialises logging for a command.
func (a *app) setup(common *commonFlags) (*config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if common.debug {
		level = "debug"
	}
	logging.Init(a.stderr, level)
	logging.Debug("config loaded", "base_url", cfg.BaseURL)
	return cfg, nil
}

func newAPIClient(cfg *config.Config) *fetch.Client {
	return fetch.NewClient(fetch.Options{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
	})
}

func newThreadSource(cfg *config.Config, kind string) threadSource {
	if kind == sourceRSS {
		return fetch.NewFeedSource(cfg.BaseURL, cfg.HTTP.Timeout)
	}
	return newAPIClient(cfg)
}
