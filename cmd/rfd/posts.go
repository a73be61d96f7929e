package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/rfd/internal/fetch"
	"github.com/abelbrown/rfd/internal/model"
	"github.com/abelbrown/rfd/internal/ui"
)

func (a *app) runPosts(ctx context.Context, args []string) error {
	fs := a.newFlagSet("posts", "<post id or url> [flags]")
	var common commonFlags
	noPager := fs.Bool("no-pager", false, "write output directly instead of paging")
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one post id or url")
	}
	post := fs.Arg(0)

	if err := common.validate(); err != nil {
		return err
	}
	id, err := fetch.ParsePostID(post)
	if err != nil {
		return err
	}

	cfg, err := a.setup(&common)
	if err != nil {
		return err
	}

	records, err := newAPIClient(cfg).Posts(ctx, post)
	if err != nil {
		return err
	}
	posts := model.NormalizePosts(records)

	var out strings.Builder
	if common.json() {
		if err := ui.PostsJSON(&out, posts); err != nil {
			return err
		}
	} else {
		out.WriteString(ui.NewRenderer(a.stdout, common.color()).PostList(posts))
	}

	title := fmt.Sprintf("rfd posts %d: %d posts", id, len(posts))
	return ui.NewPager(a.stdout, title, !*noPager, common.color()).Page(out.String())
}
