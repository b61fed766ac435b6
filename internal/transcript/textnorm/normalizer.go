// Package textnorm cleans raw speech-to-text output into readable
// paragraphs.
//
// Transcribed interview answers arrive as one run-on string full of
// disfluencies ("um", "uh, you know", trailing half-sentences). The
// [Normalizer] applies a fixed sequence of best-effort passes:
//
//  1. Filler removal — a small vocabulary of disfluency tokens plus
//     edit-distance variants ("umm", "uhhh", "y'know").
//  2. Whitespace and punctuation normalization — collapsed runs, a terminal
//     period where one is missing.
//  3. Capitalization repair — sentence starts and the standalone pronoun "i".
//  4. Paragraph splitting — discourse markers starting a sentence open a new
//     paragraph once the text is long enough to deserve several.
//  5. Fragment filtering — paragraphs too short to carry content are
//     dropped.
//
// This is a heuristic text-quality pass, not NLP: over-aggressive filler
// matches are an accepted tradeoff. The contract is "produces readable
// paragraphs", and normalizing already-clean text leaves it unchanged.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

const (
	// defaultSplitThreshold is the cleaned-text length (in bytes) above
	// which paragraph splitting kicks in. Shorter answers stay a single
	// paragraph.
	defaultSplitThreshold = 280

	// defaultMinParagraphLen drops paragraphs shorter than this many bytes,
	// so filler-only leftovers like "Um." never survive on their own.
	defaultMinParagraphLen = 20

	// maxFuzzyTokenLen bounds the tokens considered for fuzzy filler
	// matching. Anything longer is a real word.
	maxFuzzyTokenLen = 6

	// fuzzyDistance is the Damerau-Levenshtein budget for filler variants.
	fuzzyDistance = 2
)

// fillerWords are dropped wherever they appear as standalone tokens.
var fillerWords = map[string]struct{}{
	"um": {}, "uh": {}, "er": {}, "erm": {}, "hmm": {}, "mhm": {},
}

// fillerPhrases are two-word disfluencies dropped as a unit. Variants cover
// the contractions STT providers commonly emit for them.
var fillerPhrases = map[string]struct{}{
	"you know": {}, "i mean": {}, "y'know": {}, "ya know": {},
}

// paragraphMarkers open a new paragraph when they begin a sentence in a
// long answer. Matched case-insensitively against the sentence's first
// word (or first two words for the multi-word entries).
var paragraphMarkers = []string{
	"however", "additionally", "finally", "meanwhile", "anyway",
	"afterwards", "after that",
}

var (
	spaceRunRe    = regexp.MustCompile(`\s+`)
	spacePunctRe  = regexp.MustCompile(`\s+([,.!?;:])`)
	commaRunRe    = regexp.MustCompile(`,{2,}`)
	terminalRunRe = regexp.MustCompile(`([.!?])[.!?]+`)
	commaStopRe   = regexp.MustCompile(`,([.!?])`)
	sentenceRe    = regexp.MustCompile(`[^.!?]+[.!?]*`)
	loneIRe       = regexp.MustCompile(`(^|[\s,.!?])i([\s,.!?']|$)`)
)

// Option is a functional option for [New].
type Option func(*Normalizer)

// WithSplitThreshold sets the cleaned-text length above which paragraph
// splitting is attempted. Default: 280.
func WithSplitThreshold(n int) Option {
	return func(nm *Normalizer) { nm.splitThreshold = n }
}

// WithMinParagraphLength sets the minimum byte length a paragraph must have
// to survive fragment filtering. Default: 20.
func WithMinParagraphLength(n int) Option {
	return func(nm *Normalizer) { nm.minParagraph = n }
}

// WithFillerWords adds extra standalone filler tokens to the removal
// vocabulary (lowercase).
func WithFillerWords(words ...string) Option {
	return func(nm *Normalizer) {
		for _, w := range words {
			nm.fillers[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Normalizer cleans raw transcript text. It is immutable after [New] and
// safe for concurrent use.
type Normalizer struct {
	splitThreshold int
	minParagraph   int
	fillers        map[string]struct{}
}

// New constructs a [Normalizer] with the supplied options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		splitThreshold: defaultSplitThreshold,
		minParagraph:   defaultMinParagraphLen,
		fillers:        make(map[string]struct{}, len(fillerWords)),
	}
	for w := range fillerWords {
		n.fillers[w] = struct{}{}
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize cleans raw and returns the resulting paragraphs in order. An
// input that cleans down to nothing returns an empty slice; the caller
// decides what an answer without usable text means.
func (n *Normalizer) Normalize(raw string) []string {
	text := strings.TrimSpace(spaceRunRe.ReplaceAllString(raw, " "))
	if text == "" {
		return nil
	}

	text = n.stripFillers(text)
	text = cleanPunctuation(text)
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)
	for i, s := range sentences {
		sentences[i] = repairCapitalization(s)
	}

	paragraphs := n.assembleParagraphs(sentences)

	kept := paragraphs[:0]
	for _, p := range paragraphs {
		if len(p) >= n.minParagraph {
			kept = append(kept, p)
		}
	}
	return kept
}

// stripFillers drops filler tokens and phrases from whitespace-tokenised
// text. When a dropped filler was set off by commas ("think, you know, it")
// the bracketing comma on the preceding word is removed too; a terminal
// punctuation mark carried by a dropped filler re-attaches to the previous
// word so sentence boundaries survive.
func (n *Normalizer) stripFillers(text string) string {
	tokens := strings.Fields(text)
	out := make([]string, 0, len(tokens))

	drop := func(punct string) {
		if len(out) == 0 || punct == "" {
			return
		}
		last := out[len(out)-1]
		switch {
		case strings.HasPrefix(punct, ",") && strings.HasSuffix(last, ","):
			// The filler was comma-bracketed; both commas go.
			out[len(out)-1] = strings.TrimSuffix(last, ",")
		case strings.ContainsAny(punct, ".!?"):
			out[len(out)-1] = last + terminalOf(punct)
		}
	}

	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) {
			first := bareWord(tokens[i])
			second, punct := splitToken(tokens[i+1])
			if _, ok := fillerPhrases[first+" "+second]; ok {
				drop(punct)
				i++
				continue
			}
		}

		word, punct := splitToken(tokens[i])
		// Contracted phrases ("y'know") arrive as a single token.
		_, contracted := fillerPhrases[word]
		if contracted || n.isFillerWord(word) || (word == "like" && strings.HasPrefix(punct, ",")) {
			drop(punct)
			continue
		}
		out = append(out, tokens[i])
	}
	return strings.Join(out, " ")
}

// isFillerWord reports whether word (lowercase, punctuation stripped) is a
// disfluency token. Beyond the exact vocabulary it accepts stretched
// variants ("ummm", "uhhh") by Damerau-Levenshtein distance, guarded so
// real short words ("am", "him", "up") never match: the variant must share
// the filler's first letter and use only the filler's letters.
func (n *Normalizer) isFillerWord(word string) bool {
	if word == "" {
		return false
	}
	if _, ok := n.fillers[word]; ok {
		return true
	}
	if len(word) > maxFuzzyTokenLen {
		return false
	}
	for f := range n.fillers {
		if word[0] != f[0] || !subsetOf(word, f) {
			continue
		}
		if matchr.DamerauLevenshtein(word, f) <= fuzzyDistance {
			return true
		}
	}
	return false
}

// subsetOf reports whether every letter of word occurs in vocab.
func subsetOf(word, vocab string) bool {
	for _, r := range word {
		if !strings.ContainsRune(vocab, r) {
			return false
		}
	}
	return true
}

// splitToken separates a token into its lowercase word and any trailing
// punctuation run.
func splitToken(tok string) (word, punct string) {
	cut := len(tok)
	for cut > 0 {
		r, size := utf8.DecodeLastRuneInString(tok[:cut])
		if !unicode.IsPunct(r) {
			break
		}
		cut -= size
	}
	return strings.ToLower(tok[:cut]), tok[cut:]
}

// bareWord returns the token's lowercase word with trailing punctuation
// removed.
func bareWord(tok string) string {
	w, _ := splitToken(tok)
	return w
}

// terminalOf returns the first terminal punctuation mark in punct.
func terminalOf(punct string) string {
	if i := strings.IndexAny(punct, ".!?"); i >= 0 {
		return punct[i : i+1]
	}
	return ""
}

// cleanPunctuation collapses punctuation runs, removes stray spaces before
// punctuation, and guarantees the text ends with a terminal mark.
func cleanPunctuation(text string) string {
	text = spacePunctRe.ReplaceAllString(text, "$1")
	text = commaRunRe.ReplaceAllString(text, ",")
	text = terminalRunRe.ReplaceAllString(text, "$1")
	text = commaStopRe.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(spaceRunRe.ReplaceAllString(text, " "))
	text = strings.TrimPrefix(text, ",")
	text = strings.TrimSpace(text)
	if text == "" || text == "." {
		return ""
	}
	if !strings.ContainsAny(text[len(text)-1:], ".!?") {
		text += "."
	}
	return text
}

// splitSentences breaks cleaned text at terminal punctuation, keeping the
// punctuation attached to its sentence.
func splitSentences(text string) []string {
	parts := sentenceRe.FindAllString(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p[len(p)-1:], ".!?") {
			p += "."
		}
		out = append(out, p)
	}
	return out
}

// repairCapitalization uppercases the sentence's first letter and every
// standalone first-person "i".
func repairCapitalization(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r != utf8.RuneError && unicode.IsLower(r) {
		s = string(unicode.ToUpper(r)) + s[size:]
	}
	// Adjacent pronouns share their separator, so a single pass misses the
	// second "i" in "i i".
	s = loneIRe.ReplaceAllString(s, "${1}I${2}")
	return loneIRe.ReplaceAllString(s, "${1}I${2}")
}

// assembleParagraphs groups sentences into paragraphs. Short answers stay a
// single paragraph; above the split threshold a sentence opening with a
// discourse marker starts a new one.
func (n *Normalizer) assembleParagraphs(sentences []string) []string {
	if len(sentences) == 0 {
		return nil
	}

	total := 0
	for _, s := range sentences {
		total += len(s) + 1
	}
	if total <= n.splitThreshold {
		return []string{strings.Join(sentences, " ")}
	}

	var paragraphs []string
	var current []string
	for _, s := range sentences {
		if len(current) > 0 && startsWithMarker(s) {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
		current = append(current, s)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

// startsWithMarker reports whether the sentence opens with a discourse
// marker such as "however" or "finally".
func startsWithMarker(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, m := range paragraphMarkers {
		if !strings.HasPrefix(lower, m) {
			continue
		}
		rest := lower[len(m):]
		if rest == "" || rest[0] == ' ' || rest[0] == ',' || rest[0] == '.' {
			return true
		}
	}
	return false
}
