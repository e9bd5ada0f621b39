package knowledge

import "strings"

// Chunking defaults, sized for embedding inputs.
const (
	DefaultTargetSize = 800
	DefaultMaxSize    = 1200
)

// ChunkOptions configures how extracted text is split before embedding.
type ChunkOptions struct {
	// TargetSize is the preferred chunk length in bytes.
	TargetSize int

	// MaxSize is the hard upper bound; larger blocks are split on line
	// boundaries.
	MaxSize int
}

// DefaultChunkOptions returns the standard chunk sizing.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{TargetSize: DefaultTargetSize, MaxSize: DefaultMaxSize}
}

// Chunk splits text into embedding-sized pieces. Blocks are cut on markdown
// headings and blank-line boundaries, small neighbors are merged up to the
// target size, and anything still over the max is split on line boundaries.
// Short input comes back as a single chunk; empty input as none.
func Chunk(text string, opts ChunkOptions) []string {
	if opts.TargetSize <= 0 {
		opts = DefaultChunkOptions()
	}
	if opts.MaxSize < opts.TargetSize {
		opts.MaxSize = opts.TargetSize
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= opts.MaxSize {
		return []string{text}
	}

	return mergeBlocks(splitBlocks(text), opts)
}

// splitBlocks cuts text on heading lines and double blank lines.
func splitBlocks(text string) []string {
	lines := strings.Split(text, "\n")
	var blocks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
			blocks = append(blocks, t)
		}
		current = nil
	}

	prevEmpty := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") && len(current) > 0 {
			flush()
		}

		if trimmed == "" {
			if prevEmpty && len(current) > 0 {
				flush()
			}
			prevEmpty = true
			current = append(current, line)
			continue
		}
		prevEmpty = false
		current = append(current, line)
	}
	flush()

	return blocks
}

// mergeBlocks combines small blocks toward the target size and hard-splits
// oversized ones.
func mergeBlocks(blocks []string, opts ChunkOptions) []string {
	var chunks []string
	var accum string

	flushAccum := func() {
		t := strings.TrimSpace(accum)
		accum = ""
		if t == "" {
			return
		}
		if len(t) > opts.MaxSize {
			chunks = append(chunks, hardSplit(t, opts)...)
			return
		}
		chunks = append(chunks, t)
	}

	for _, b := range blocks {
		if accum == "" {
			accum = b
			continue
		}
		combined := accum + "\n\n" + b
		if len(combined) <= opts.TargetSize {
			accum = combined
		} else {
			flushAccum()
			accum = b
		}
	}
	flushAccum()

	return chunks
}

// hardSplit breaks an oversized block on line boundaries.
func hardSplit(text string, opts ChunkOptions) []string {
	lines := strings.Split(text, "\n")
	var chunks []string
	var current []string
	curLen := 0

	flush := func() {
		if t := strings.TrimSpace(strings.Join(current, "\n")); t != "" {
			chunks = append(chunks, t)
		}
		current = nil
		curLen = 0
	}

	for _, line := range lines {
		if curLen+len(line) > opts.TargetSize && len(current) > 0 {
			flush()
		}
		current = append(current, line)
		curLen += len(line) + 1
	}
	flush()

	return chunks
}
