package main

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/rfd/internal/coord"
	"github.com/abelbrown/rfd/internal/logging"
	"github.com/abelbrown/rfd/internal/model"
	"github.com/abelbrown/rfd/internal/notify"
	"github.com/abelbrown/rfd/internal/ui"
)

func (a *app) runWatch(ctx context.Context, args []string) error {
	fs := a.newFlagSet("watch-threads", "[flags]")
	var listing listingFlags
	var common commonFlags
	listing.register(fs, 1)
	refresh := fs.Int("refresh", int(coord.DefaultInterval/time.Second), "seconds between refreshes")
	newOnly := fs.Bool("new-only", false, "after the first poll, print only new threads")
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
	if *refresh < 1 {
		return fmt.Errorf("--refresh must be at least 1 second, got %d", *refresh)
	}

	cfg, err := a.setup(&common)
	if err != nil {
		return err
	}

	notifier, err := notify.FromConfig(*cfg)
	if err != nil {
		return err
	}
	if notifier == nil {
		logging.Debug("notifications disabled")
	}

	r := ui.NewRenderer(a.stdout, common.color())
	emit := func(_ coord.State, entries []coord.Entry) {
		if common.json() {
			threads := make([]model.Thread, len(entries))
			for i, e := range entries {
				threads[i] = e.Thread
			}
			if err := ui.ThreadsJSON(a.stdout, threads); err != nil {
				logging.Error("write output", "err", err)
			}
			return
		}
		for _, e := range entries {
			fmt.Fprintln(a.stdout, r.WatchBlock(e.Thread, e.New))
		}
	}

	interval := time.Duration(*refresh) * time.Second
	m := coord.NewMonitor(newThreadSource(cfg, listing.source), coord.Options{
		ForumID:  listing.forumID,
		Pages:    listing.pages,
		SortKey:  key,
		Interval: interval,
		Notifier: notifier,
		Emit:     emit,
		NewOnly:  *newOnly,
	})

	logging.Info("watching forum", "forum", listing.forumID, "pages", listing.pages, "every", interval)
	final := m.Run(ctx)
	logging.Debug("watch stopped", "cursor", final.NewestTopicID)
	return nil
}
