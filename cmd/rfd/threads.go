package main

import (
	"context"
	"fmt"
	"io"

	"github.com/abelbrown/rfd/internal/filter"
	"github.com/abelbrown/rfd/internal/model"
	"github.com/abelbrown/rfd/internal/ui"
)

// threadsTail is how many entries the text listing shows.
const threadsTail = 10

func (a *app) runThreads(ctx context.Context, args []string) error {
	fs := a.newFlagSet("threads", "[flags]")
	var listing listingFlags
	var common commonFlags
	listing.register(fs, 1)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	key, err := listing.validate()
	if err != nil {
		return err
	}
	if err := common.validate(); err != nil {
		return err
	}

	cfg, err := a.setup(&common)
	if err != nil {
		return err
	}

	threads, err := pollThreads(ctx, newThreadSource(cfg, listing.source), listing.forumID, listing.pages)
	if err != nil {
		return err
	}
	threads, err = filter.Sort(threads, key)
	if err != nil {
		return err
	}

	if common.json() {
		return ui.ThreadsJSON(a.stdout, threads)
	}
	r := ui.NewRenderer(a.stdout, common.color())
	_, err = io.WriteString(a.stdout, r.ThreadList(threads, threadsTail))
	return err
}

// pollThreads fetches and normalizes one listing.
func pollThreads(ctx context.Context, src threadSource, forumID, pages int) ([]model.Thread, error) {
	topics, err := src.Topics(ctx, forumID, pages)
	if err != nil {
		return nil, err
	}
	return model.NormalizeThreads(src.BaseURL(), topics), nil
}
