package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Chunk is one bounded-length utterance. Index is the chunk's position in
// the source text; downstream stages correlate results by it.
type Chunk struct {
	Content string
	Index   int
}

type Options struct {
	MaxChunkLength int // maximum utterance length in characters
	CacheSize      int // number of memoized inputs, LRU-evicted
}

func DefaultOptions() Options {
	return Options{
		MaxChunkLength: 80,
		CacheSize:      512,
	}
}

var (
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	subPartPattern  = regexp.MustCompile(`[,;]+`)
)

// Chunker splits normalized text into utterances short enough for a synthesis
// backend: sentence boundaries first, then comma/semicolon boundaries, then
// word boundaries. Packing is greedy left-to-right.
type Chunker struct {
	opts  Options
	cache *lru.Cache[string, []Chunk]
}

func New(opts Options) *Chunker {
	if opts.MaxChunkLength <= 0 {
		opts.MaxChunkLength = DefaultOptions().MaxChunkLength
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultOptions().CacheSize
	}
	cache, _ := lru.New[string, []Chunk](opts.CacheSize)
	return &Chunker{opts: opts, cache: cache}
}

// Split returns the ordered utterances of text. Results are memoized by exact
// input; callers must treat the returned slice as read-only.
func (c *Chunker) Split(text string) []Chunk {
	if cached, ok := c.cache.Get(text); ok {
		return cached
	}

	contents := c.split(text)
	chunks := make([]Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = Chunk{Content: content, Index: i}
	}

	c.cache.Add(text, chunks)
	return chunks
}

func (c *Chunker) split(text string) []string {
	var chunks []string

	for _, sentence := range sentencePattern.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if utf8.RuneCountInString(sentence) <= c.opts.MaxChunkLength {
			chunks = append(chunks, sentence)
			continue
		}

		chunks = c.packParts(chunks, sentence)
	}

	return chunks
}

// packParts splits an oversized sentence at comma/semicolon runs and greedily
// repacks the parts under the limit, rejoining with ", ".
func (c *Chunker) packParts(chunks []string, sentence string) []string {
	limit := c.opts.MaxChunkLength

	current := ""
	for _, part := range subPartPattern.Split(sentence, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if utf8.RuneCountInString(current)+utf8.RuneCountInString(part)+2 <= limit {
			if current != "" {
				current += ", " + part
			} else {
				current = part
			}
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}

		if utf8.RuneCountInString(part) > limit {
			// The part's word remainder stays in the accumulator so
			// following parts keep packing onto it.
			chunks, current = c.packWords(chunks, part)
		} else {
			current = part
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// packWords greedily packs the words of a single oversized part, space-joined.
// A word longer than the limit becomes a chunk of its own.
func (c *Chunker) packWords(chunks []string, part string) ([]string, string) {
	limit := c.opts.MaxChunkLength

	current := ""
	for _, word := range strings.Fields(part) {
		if utf8.RuneCountInString(current)+utf8.RuneCountInString(word)+1 <= limit {
			if current != "" {
				current += " " + word
			} else {
				current = word
			}
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}
		current = word
	}

	return chunks, current
}
