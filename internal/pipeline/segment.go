package pipeline

import (
	"strings"
)

const (
	minSegmentChars = 50
	maxSegmentChars = 300
	minSegments     = 3
	maxSegments     = 10
	wordsPerMinute  = 150.0
	minDuration     = 3.0
)

// segmentScript splits a script into the chunks that back visual prompts.
// Paragraphs shorter than 50 characters are dropped as headings or
// fragments; paragraphs longer than 300 characters are re-split on
// sentence boundaries. A script that yields fewer than three segments is
// treated as a single segment, and at most ten segments are kept.
func segmentScript(script string) []string {
	var segments []string
	for _, para := range strings.Split(script, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < minSegmentChars {
			continue
		}
		if len(para) <= maxSegmentChars {
			segments = append(segments, para)
			continue
		}
		segments = append(segments, splitSentences(para)...)
	}
	if len(segments) < minSegments {
		if trimmed := strings.TrimSpace(script); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}
	if len(segments) > maxSegments {
		segments = segments[:maxSegments]
	}
	return segments
}

// splitSentences greedily packs sentences into chunks of at most 300
// characters. A single sentence longer than the limit becomes its own
// chunk rather than being cut mid-sentence.
func splitSentences(text string) []string {
	sentences := sentenceSplit(text)
	var chunks []string
	var current strings.Builder
	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > maxSegmentChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// sentenceSplit breaks text on ". ", "! " and "? ", keeping the
// terminator attached to its sentence.
func sentenceSplit(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			sentence := strings.TrimSpace(text[start : i+1])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 2
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// segmentDuration estimates narration time in seconds at 150 words per
// minute, never below three seconds.
func segmentDuration(segment string) float64 {
	words := len(strings.Fields(segment))
	duration := float64(words) / wordsPerMinute * 60.0
	if duration < minDuration {
		return minDuration
	}
	return duration
}
