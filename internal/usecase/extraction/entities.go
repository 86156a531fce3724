package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// Lexical patterns checked independently over the raw text. Each is a pure
// matcher; the results are composed by concatenation and ordered by first
// occurrence.
var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d(?:[-. ]?\d){6,14}`)
	urlPattern   = regexp.MustCompile(`(?:https?://|www\.)[^\s]+`)
	namePattern  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

	currencySymbolPattern = regexp.MustCompile(`[$€£]\s?\d+(?:,\d{3})*(?:\.\d+)?`)
	currencyCodePattern   = regexp.MustCompile(`\b\d+(?:,\d{3})*(?:\.\d+)?\s?(?:USD|EUR|GBP|JPY|VND)\b|\b(?:USD|EUR|GBP|JPY|VND)\s?\d+(?:,\d{3})*(?:\.\d+)?\b`)

	numberPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
)

// datePatterns cover absolute (MM/DD/YYYY, YYYY-MM-DD, month-name) and
// relative ("next Monday", bare weekday) forms.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,?\s*\d{4})?\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:\s+\d{4})?\b`),
	regexp.MustCompile(`(?i)\b(?:next\s+)?(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
}

// nameStopWords filters capitalized tokens that are never names. Weekdays
// and months are here because the date matcher already claims them.
var nameStopWords = map[string]bool{
	"The": true, "This": true, "That": true, "There": true, "They": true,
	"These": true, "Those": true, "Then": true, "We": true, "He": true,
	"She": true, "It": true, "I": true, "You": true, "Our": true,
	"Your": true, "My": true, "His": true, "Her": true, "Their": true,
	"And": true, "But": true, "Or": true, "If": true, "So": true,
	"When": true, "What": true, "Who": true, "Where": true, "Why": true,
	"How": true, "Also": true, "Please": true, "Thanks": true, "Okay": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
	"January": true, "February": true, "March": true, "April": true,
	"May": true, "June": true, "July": true, "August": true,
	"September": true, "October": true, "November": true, "December": true,
}

// maxNumberEntities bounds how many bare numeric tokens are reported; long
// transcripts are full of incidental numbers.
const maxNumberEntities = 10

type patternMatch struct {
	start int
	typ   entities.EntityType
	value string
}

// ExtractEntities finds emails, phone numbers, URLs, currency amounts,
// dates, numbers and proper-noun-like names in text. Matches are returned
// in first-occurrence order with duplicate (type, value) pairs removed.
// It never fails; text without matches yields an empty list.
func ExtractEntities(text string) []entities.ExtractedEntity {
	matches := make([]patternMatch, 0)

	collect := func(typ entities.EntityType, re *regexp.Regexp) {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, patternMatch{loc[0], typ, text[loc[0]:loc[1]]})
		}
	}

	collect(entities.EntityTypeEmail, emailPattern)
	collect(entities.EntityTypeURL, urlPattern)
	collect(entities.EntityTypeCurrency, currencySymbolPattern)
	collect(entities.EntityTypeCurrency, currencyCodePattern)

	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		if n := digitCount(value); n >= 7 && n <= 15 {
			matches = append(matches, patternMatch{loc[0], entities.EntityTypePhone, value})
		}
	}

	for _, re := range datePatterns {
		collect(entities.EntityTypeDate, re)
	}

	numbers := 0
	for _, loc := range numberPattern.FindAllStringIndex(text, -1) {
		if numbers >= maxNumberEntities {
			break
		}
		matches = append(matches, patternMatch{loc[0], entities.EntityTypeNumber, text[loc[0]:loc[1]]})
		numbers++
	}

	for _, loc := range namePattern.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		if isLikelyName(value) {
			matches = append(matches, patternMatch{loc[0], entities.EntityTypeName, value})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	seen := make(map[string]bool, len(matches))
	result := make([]entities.ExtractedEntity, 0, len(matches))
	for _, m := range matches {
		key := string(m.typ) + "\x00" + m.value
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, entities.ExtractedEntity{Type: m.typ, Value: m.value})
	}
	return result
}

// isLikelyName applies the stop-word filter to a capitalized sequence. The
// heuristic tolerates false positives; this only strips obvious non-names.
func isLikelyName(value string) bool {
	if len(value) <= 2 {
		return false
	}
	words := strings.Fields(value)
	for _, w := range words {
		if !nameStopWords[w] {
			return true
		}
	}
	return false
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// firstDateIn returns the first date token found in s, or "".
func firstDateIn(s string) string {
	best := -1
	value := ""
	for _, re := range datePatterns {
		if loc := re.FindStringIndex(s); loc != nil {
			if best == -1 || loc[0] < best {
				best = loc[0]
				value = s[loc[0]:loc[1]]
			}
		}
	}
	return value
}
