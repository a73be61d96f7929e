// Package ui turns threads and posts into terminal output: JSON documents,
// decorated text lines, and a pager for long listings.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/abelbrown/rfd/internal/model"
	"github.com/abelbrown/rfd/internal/ranking"
)

// voteWidth is the column the watch-mode vote marker is padded to.
const voteWidth = 7

// urlIndent prefixes the URL continuation line in watch mode.
const urlIndent = "         "

// Bell is appended to the title of a new thread.
const Bell = "\a"

// Renderer formats threads and posts as decorated text. Its methods are
// pure: the same input always yields the same string.
type Renderer struct {
	st styles
}

// NewRenderer creates a Renderer for output written to w. When color is
// false, or w does not support it, output carries no escape sequences.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{st: newStyles(w, color)}
}

// VoteMarker returns the bracketed score: [+N], [0] or [-N].
func VoteMarker(score int) string {
	if score > 0 {
		return "[+" + strconv.Itoa(score) + "]"
	}
	return "[" + strconv.Itoa(score) + "]"
}

func (r *Renderer) vote(score int) string {
	return r.st.vote[ranking.BucketOf(score)].Render(VoteMarker(score))
}

func (r *Renderer) dealer(t model.Thread) string {
	d, ok := t.Dealer()
	if !ok {
		return ""
	}
	return r.st.dealer.Render("["+d+"]") + " "
}

func (r *Renderer) views(t model.Thread) string {
	if t.Views == nil {
		return ""
	}
	return " " + r.st.detail.Render(fmt.Sprintf("(%d views)", *t.Views))
}

// ThreadLine renders entry n (1-based) of a one-shot listing:
//
//	 3. [+12] [Costco] Cheap TVs (1520 views) https://...
func (r *Renderer) ThreadLine(n int, t model.Thread) string {
	return fmt.Sprintf(" %d. %s %s%s%s %s",
		n,
		r.vote(t.Score),
		r.dealer(t),
		t.TitleText(),
		r.views(t),
		r.st.url.Render(t.URL))
}

// WatchBlock renders one thread for the watch loop, with the URL on an
// indented continuation line. New threads get a highlighted title followed
// by a terminal bell.
func (r *Renderer) WatchBlock(t model.Thread, isNew bool) string {
	var b strings.Builder

	vote := r.vote(t.Score)
	b.WriteString(vote)
	if pad := voteWidth - ansi.StringWidth(vote); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}

	if t.PostTime != nil {
		b.WriteString(r.st.detail.Render("(" + *t.PostTime + ")"))
		b.WriteByte(' ')
	}

	b.WriteString(r.dealer(t))
	if isNew {
		b.WriteString(r.st.newTitle.Render(t.TitleText()))
		b.WriteString(Bell)
	} else {
		b.WriteString(t.TitleText())
	}
	b.WriteString(r.views(t))

	b.WriteByte('\n')
	b.WriteString(urlIndent)
	b.WriteString(r.st.url.Render(t.URL))
	return b.String()
}

// PostLine renders one post: a header with vote, author and time, then the
// body.
func (r *Renderer) PostLine(p model.Post) string {
	user := "(unknown)"
	if p.User != nil {
		user = *p.User
	}

	header := r.vote(p.Score) + " " + r.st.user.Render(user)
	if p.PostTime != nil {
		header += " " + r.st.detail.Render("("+*p.PostTime+")")
	}
	return header + "\n" + p.Body
}

// ThreadList renders threads as a numbered listing, one blank line between
// entries. Only the last tail entries are kept when tail > 0; numbering
// still reflects each thread's position in the full list.
func (r *Renderer) ThreadList(threads []model.Thread, tail int) string {
	start := 0
	if tail > 0 && len(threads) > tail {
		start = len(threads) - tail
	}

	var b strings.Builder
	for i := start; i < len(threads); i++ {
		b.WriteString(r.ThreadLine(i+1, threads[i]))
		b.WriteString("\n\n")
	}
	return b.String()
}

// PostList renders posts separated by a blank line.
func (r *Renderer) PostList(posts []model.Post) string {
	var b strings.Builder
	for _, p := range posts {
		b.WriteString(r.PostLine(p))
		b.WriteString("\n\n")
	}
	return b.String()
}
