package fetch

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// forumHost is the only host accepted in post URLs.
const forumHost = "forums.redflagdeals.com"

// maxConcurrentPages limits parallel page fetches for one thread.
const maxConcurrentPages = 4

// maxPostPages caps the backend-reported page count of one thread.
const maxPostPages = 10000

// idSegmentRe matches a path segment that ends in the numeric thread id,
// either "slug-2173603" or a bare "2173603".
var idSegmentRe = regexp.MustCompile(`(?:^|-)(\d+)$`)

// ParsePostID resolves a bare numeric id or a full thread URL to the thread id.
//
//	2173603
//	https://forums.redflagdeals.com/koodo-targeted-public-mobile-12-120-koodo-5gb-40-no-referrals-2173603/
func ParsePostID(post string) (int64, error) {
	post = strings.TrimSpace(post)
	if post == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}

	if id, err := strconv.ParseInt(post, 10, 64); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, post)
		}
		return id, nil
	}

	raw := post
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, post)
	}
	if strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") != forumHost {
		return 0, fmt.Errorf("%w: %q is not a %s URL", ErrInvalidIdentifier, post, forumHost)
	}

	if id, ok := topicIDFromPath(u.Path); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, post)
}

// topicIDFromPath returns the id carried by the first path segment that ends
// in digits. Later segments are page numbers ("/slug-123/2/").
func topicIDFromPath(path string) (int64, bool) {
	for _, seg := range strings.Split(path, "/") {
		m := idSegmentRe.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

type postsPage struct {
	Posts []Topic `json:"posts"`
	Users []Topic `json:"users"`
	Pager Topic   `json:"pager"`
}

// Posts returns every post of a thread, in page order. Each returned record
// carries the author's username under the "user" key when the page listed it.
//
// post may be a bare id or a thread URL (see ParsePostID).
func (c *Client) Posts(ctx context.Context, post string) ([]Topic, error) {
	id, err := ParsePostID(post)
	if err != nil {
		return nil, err
	}

	first, err := c.postsPage(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	totalPages, ok := first.Pager.Int("total_pages")
	if !ok {
		return nil, fmt.Errorf("thread %d: %w: missing pager", id, ErrUnexpectedResponse)
	}
	if totalPages > maxPostPages {
		return nil, fmt.Errorf("thread %d: %w: total_pages %d", id, ErrUnexpectedResponse, totalPages)
	}

	pages := make([][]Topic, max(int(totalPages), 1))
	pages[0] = first.withUsers()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for page := 2; page <= len(pages); page++ {
		g.Go(func() error {
			p, err := c.postsPage(gctx, id, page)
			if err != nil {
				return err
			}
			pages[page-1] = p.withUsers()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var posts []Topic
	for _, p := range pages {
		posts = append(posts, p...)
	}
	return posts, nil
}

func (c *Client) postsPage(ctx context.Context, id int64, page int) (postsPage, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	var body postsPage
	u := fmt.Sprintf("%s/api/topics/%d/posts?%s", c.baseURL, id, q.Encode())
	if err := c.getJSON(ctx, u, &body); err != nil {
		return postsPage{}, fmt.Errorf("thread %d page %d: %w", id, page, err)
	}
	if body.Posts == nil {
		return postsPage{}, fmt.Errorf("thread %d page %d: %w: missing posts list", id, page, ErrUnexpectedResponse)
	}
	return body, nil
}

// withUsers attaches usernames from the page's user list to its posts.
func (p postsPage) withUsers() []Topic {
	names := make(map[int64]string, len(p.Users))
	for _, u := range p.Users {
		id, ok := u.Int("user_id")
		if !ok {
			continue
		}
		if name, ok := u.String("username"); ok {
			names[id] = name
		}
	}

	for _, post := range p.Posts {
		if post == nil {
			continue
		}
		author, ok := post.Int("author_id")
		if !ok {
			continue
		}
		if name, ok := names[author]; ok {
			post.Set("user", name)
		}
	}
	return p.Posts
}
