package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abelbrown/rfd/internal/filter"
	"github.com/abelbrown/rfd/internal/ui"
)

func (a *app) runSearch(ctx context.Context, args []string) error {
	fs := a.newFlagSet("search", "<regex> [flags]")
	var listing listingFlags
	var common commonFlags
	listing.register(fs, 5)
	noPager := fs.Bool("no-pager", false, "write output directly instead of paging")
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one regex argument")
	}
	pattern := fs.Arg(0)

	key, err := listing.validate()
	if err != nil {
		return err
	}
	if err := common.validate(); err != nil {
		return err
	}
	if _, err := filter.CompilePattern(pattern); err != nil {
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
	matches, err := filter.Search(threads, pattern)
	if err != nil {
		return err
	}
	found, err := filter.Sort(slices.Collect(matches), key)
	if err != nil {
		return err
	}

	var out strings.Builder
	if common.json() {
		if err := ui.ThreadsJSON(&out, found); err != nil {
			return err
		}
	} else {
		out.WriteString(ui.NewRenderer(a.stdout, common.color()).ThreadList(found, 0))
	}

	title := fmt.Sprintf("rfd search %q: %d matches", pattern, len(found))
	return ui.NewPager(a.stdout, title, !*noPager, common.color()).Page(out.String())
}
