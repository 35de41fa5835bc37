package text

import (
	"html"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern     = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*(),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	bracketPattern = regexp.MustCompile(`[\[\]{}()]`)

	// Keeps Unicode word characters, whitespace, the Tamil block (including
	// its combining signs, which are not letters), basic punctuation, and
	// the danda sentence terminators.
	specialCharPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\x{0B80}-\x{0BFF}.,!?;:\-'"।॥]`)

	whitespacePattern = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Normalizer strips markup noise from raw request text and restricts it to
// characters a synthesis backend can speak. Normalization is idempotent and
// results are memoized by exact input.
type Normalizer struct {
	cache *lru.Cache[string, string]
}

func NewNormalizer(cacheSize int) *Normalizer {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, _ := lru.New[string, string](cacheSize)
	return &Normalizer{cache: cache}
}

// Normalize cleans text for synthesis. Step order matters: URLs and tags must
// go before character filtering, which could otherwise fuse markup fragments
// into neighboring words.
func (n *Normalizer) Normalize(text string) string {
	if cached, ok := n.cache.Get(text); ok {
		return cached
	}

	out := urlPattern.ReplaceAllString(text, "")
	out = tagPattern.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = bracketPattern.ReplaceAllString(out, "")
	out = norm.NFKD.String(out)
	out = specialCharPattern.ReplaceAllString(out, "")
	out = whitespacePattern.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)

	n.cache.Add(text, out)
	return out
}
