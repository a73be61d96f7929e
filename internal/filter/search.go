package filter

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/abelbrown/rfd/internal/model"
)

// ErrInvalidPattern is returned when a search expression does not compile.
var ErrInvalidPattern = errors.New("invalid search pattern")

// CompilePattern compiles a case-insensitive search expression.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// Search yields, lazily and in input order, every thread whose title or
// dealer name matches pattern, ignoring case. The pattern is compiled up
// front so syntax errors surface here rather than as an empty result.
func Search(threads []model.Thread, pattern string) (iter.Seq[model.Thread], error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	return func(yield func(model.Thread) bool) {
		for _, t := range threads {
			if !Matches(re, t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}, nil
}

// Matches reports whether re matches the lower-cased title or dealer name.
func Matches(re *regexp.Regexp, t model.Thread) bool {
	if re.MatchString(strings.ToLower(t.TitleText())) {
		return true
	}
	dealer, ok := t.Dealer()
	return ok && re.MatchString(strings.ToLower(dealer))
}
