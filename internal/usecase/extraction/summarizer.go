package extraction

import (
	"regexp"
	"sort"
	"strings"
)

var (
	sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)
	wordPattern          = regexp.MustCompile(`[a-z0-9']+`)
)

// stopWords are excluded from phrase ranking. General English function
// words plus filler common in meeting speech.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "should": true, "could": true,
	"can": true, "may": true, "might": true, "must": true, "shall": true,
	"this": true, "that": true, "these": true, "those": true, "i": true,
	"you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "them": true, "their": true, "our": true, "your": true,
	"my": true, "his": true, "her": true, "its": true, "so": true,
	"if": true, "then": true, "than": true, "as": true, "just": true,
	"very": true, "really": true, "also": true, "too": true, "not": true,
	"no": true, "yes": true, "yeah": true, "okay": true, "ok": true,
	"like": true, "get": true, "got": true, "go": true, "going": true,
	"um": true, "uh": true, "well": true, "right": true, "know": true,
	"think": true, "there": true, "here": true, "what": true, "when": true,
	"where": true, "who": true, "which": true, "how": true, "why": true,
	"all": true, "some": true, "any": true, "more": true, "most": true,
	"other": true, "such": true, "only": true, "own": true, "same": true,
	"now": true, "let's": true, "lets": true, "gonna": true, "want": true,
	"need": true, "make": true, "one": true, "two": true, "thing": true,
	"things": true, "stuff": true, "kind": true, "sort": true,
}

// SplitSentences breaks text on terminal punctuation and trims whitespace.
// Empty fragments are dropped; the fragments keep their original order.
func SplitSentences(text string) []string {
	parts := sentenceSplitPattern.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SentenceCount counts non-empty sentences.
func SentenceCount(text string) int {
	return len(SplitSentences(text))
}

type rankedPhrase struct {
	phrase string
	count  int
	first  int
}

// rankPhrases scores unigrams and bigrams by frequency. Stop words and
// short tokens are skipped; bigrams require both halves to be meaningful.
// Ties break toward earlier first occurrence.
func rankPhrases(text string) []rankedPhrase {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	record := func(phrase string) {
		if _, ok := firstSeen[phrase]; !ok {
			firstSeen[phrase] = order
		}
		counts[phrase]++
		order++
	}

	meaningful := func(w string) bool {
		return len(w) > 3 && !stopWords[w]
	}

	for i, w := range words {
		if meaningful(w) {
			record(w)
		}
		if i+1 < len(words) && meaningful(w) && meaningful(words[i+1]) {
			record(w + " " + words[i+1])
		}
	}

	ranked := make([]rankedPhrase, 0, len(counts))
	for phrase, count := range counts {
		ranked = append(ranked, rankedPhrase{phrase, count, firstSeen[phrase]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})
	return ranked
}

// KeyPhrases returns the topK highest-ranked phrases in text.
func KeyPhrases(text string, topK int) []string {
	ranked := rankPhrases(text)
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	phrases := make([]string, len(ranked))
	for i, r := range ranked {
		phrases[i] = r.phrase
	}
	return phrases
}

// Summarize picks the maxSentences most key-phrase-dense sentences and
// joins them in their original order. A sentence's score is the summed
// frequency of top-K phrases it contains, normalized by its word count.
// Short inputs are returned whole.
func Summarize(text string, maxSentences, topK int) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, ". ") + "."
	}

	ranked := rankPhrases(text)
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, s := range sentences {
		lower := strings.ToLower(s)
		sum := 0
		for _, r := range ranked {
			if strings.Contains(lower, r.phrase) {
				sum += r.count
			}
		}
		words := WordCount(s)
		if words == 0 {
			words = 1
		}
		scores[i] = scored{i, float64(sum) / float64(words)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].index < scores[j].index
	})

	picked := scores[:maxSentences]
	sort.Slice(picked, func(i, j int) bool { return picked[i].index < picked[j].index })

	out := make([]string, len(picked))
	for i, p := range picked {
		out[i] = sentences[p.index]
	}
	return strings.Join(out, ". ") + "."
}
