package requirement

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

// Parse turns a raw specifier into an [Expr]. Errors carry
// [errors.ErrCodeMalformedRequirement].
func Parse(raw string) (Expr, error) {
	s := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(s, "npm:"); ok {
		return Parse(aliasTarget(rest))
	}

	if strings.Contains(s, " || ") {
		parts := strings.Split(s, " || ")
		children := make([]Expr, 0, len(parts))
		for _, p := range parts {
			e, err := Parse(p)
			if err != nil {
				return Expr{}, err
			}
			children = append(children, e)
		}
		return Or(children...), nil
	}

	if strings.Contains(s, ">=") && strings.Contains(s, "<") {
		return parseRange(s)
	}

	return parseAtom(s)
}

// aliasTarget returns the range part of "<name>@<range>", where name may be
// scoped ("@scope/pkg@^1.0.0").
func aliasTarget(s string) string {
	start := 0
	if strings.HasPrefix(s, "@") {
		start = 1
	}
	i := strings.Index(s[start:], "@")
	if i < 0 {
		return ""
	}
	return s[start+i+1:]
}

// parseRange handles ">=X <Y" and ">= X < Y".
func parseRange(s string) (Expr, error) {
	f := strings.Fields(s)
	var lower, upper string
	switch len(f) {
	case 2:
		lower, upper = f[0], f[1]
	case 4:
		lower, upper = f[0]+f[1], f[2]+f[3]
	default:
		return Expr{}, errors.New(errors.ErrCodeMalformedRequirement, "range %q: want two bounds, got %d tokens", s, len(f))
	}

	a, err := parseAtom(lower)
	if err != nil {
		return Expr{}, err
	}
	b, err := parseAtom(upper)
	if err != nil {
		return Expr{}, err
	}
	return And(a, b), nil
}

var localRefPrefixes = []string{"http", "git", "file:", "link:", "workspace:"}

func parseAtom(s string) (Expr, error) {
	switch {
	case s == "":
		return NewAtom(OpAny, ""), nil
	case strings.HasPrefix(s, "~"):
		return bounded(OpTilde, s, s[1:])
	case strings.HasPrefix(s, "^"):
		return bounded(OpCaret, s, s[1:])
	case strings.HasPrefix(s, ">="):
		return bounded(OpGreaterOrEqual, s, s[2:])
	case strings.HasPrefix(s, "<"):
		return bounded(OpLessThan, s, s[1:])
	case hasAnyPrefix(s, localRefPrefixes):
		return NewAtom(OpGitRef, s), nil
	case s == "*":
		return NewAtom(OpAny, ""), nil
	case !strings.Contains(s, "."):
		switch {
		case isDigits(s):
			return NewAtom(OpCaret, s+".0.0"), nil
		case strings.Contains(s, "/"):
			return NewAtom(OpGitRef, s), nil
		default:
			return NewAtom(OpAny, ""), nil
		}
	default:
		return NewAtom(OpExact, s), nil
	}
}

func bounded(op Op, raw, bound string) (Expr, error) {
	bound = strings.TrimSpace(bound)
	if !validBound(bound) {
		return Expr{}, errors.New(errors.ErrCodeMalformedRequirement, "%q: invalid version bound %q", raw, bound)
	}
	return NewAtom(op, bound), nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// DefaultCacheSize is the number of distinct specifiers a [Parser] remembers.
const DefaultCacheSize = 4096

// Parser memoizes [Parse] results. Real dependency trees repeat the same
// specifiers many times ("^1.0.0", "*"), and parsing is pure, so results
// (including errors) are shared. A Parser is safe for concurrent use.
type Parser struct {
	cache  *lru.Cache[string, parsed]
	hits   atomic.Int64
	misses atomic.Int64
}

type parsed struct {
	expr Expr
	err  error
}

// NewParser creates a Parser holding up to size entries. A size <= 0
// disables caching.
func NewParser(size int) (*Parser, error) {
	if size <= 0 {
		return &Parser{}, nil
	}
	c, err := lru.New[string, parsed](size)
	if err != nil {
		return nil, err
	}
	return &Parser{cache: c}, nil
}

// Parse returns the cached expression for raw, parsing it on a miss.
func (p *Parser) Parse(raw string) (Expr, error) {
	if p.cache == nil {
		p.misses.Add(1)
		return Parse(raw)
	}
	if v, ok := p.cache.Get(raw); ok {
		p.hits.Add(1)
		return v.expr, v.err
	}
	p.misses.Add(1)
	e, err := Parse(raw)
	p.cache.Add(raw, parsed{expr: e, err: err})
	return e, err
}

// Stats returns the number of cache hits and misses so far.
func (p *Parser) Stats() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}
