package analyzer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/seoscan/internal/model"
)

// foldCase lower-cases text for keyword matching. A Caser keeps state, so a
// new one is made per call.
func foldCase(text string) string {
	return cases.Lower(language.Und).String(text)
}

// keywordTokens lower-cases text and returns its keyword tokens: runs of
// [a-z0-9] joined by single hyphens or apostrophes. A token starts and ends
// at a word boundary in the Unicode sense. When a chain runs into another
// letter, the token falls back to the part before the last joiner, so
// "foo-baré" yields "foo" and "café" yields nothing.
func keywordTokens(text string) []string {
	s := foldCase(text)
	var tokens []string
	for i := 0; i < len(s); {
		if !isTokenByte(s[i]) || precededByWordRune(s, i) {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			continue
		}
		if end := tokenEnd(s, i); end > i {
			tokens = append(tokens, s[i:end])
			i = end
			continue
		}
		i++
	}
	return tokens
}

// tokenEnd returns the end of the longest token starting at start, or -1.
func tokenEnd(s string, start int) int {
	best := -1
	j := start
	for {
		k := j
		for k < len(s) && isTokenByte(s[k]) {
			k++
		}
		if k == len(s) {
			return k
		}
		if n := joinerLen(s[k:]); n > 0 && k+n < len(s) && isTokenByte(s[k+n]) {
			best = k
			j = k + n
			continue
		}
		if r, _ := utf8.DecodeRuneInString(s[k:]); !isWordRune(r) {
			return k
		}
		return best
	}
}

// joinerLen returns the byte length of a leading hyphen or apostrophe, or 0.
func joinerLen(s string) int {
	switch {
	case strings.HasPrefix(s, "-"), strings.HasPrefix(s, "'"):
		return 1
	case strings.HasPrefix(s, "’"):
		return len("’")
	}
	return 0
}

func isTokenByte(b byte) bool {
	return ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}

func precededByWordRune(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// KeywordDensity returns the most prominent terms of text.
//
// Tokens shorter than minWordLength and stop words are dropped. The
// remaining tokens plus their adjacent bigrams are counted, and each term's
// density is its count divided by the number of remaining single tokens,
// in percent rounded to two decimals. Terms at or above minDensity are kept,
// ordered by density descending then term ascending, and the first topN are
// returned. Because the denominator counts single tokens only, a bigram's
// density can exceed a single token's.
func KeywordDensity(text string, minWordLength int, minDensity float64, topN int) []model.KeywordDensity {
	out := make([]model.KeywordDensity, 0)
	if strings.TrimSpace(text) == "" {
		return out
	}

	filtered := make([]string, 0)
	for _, tok := range keywordTokens(text) {
		if utf8.RuneCountInString(tok) < minWordLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		filtered = append(filtered, tok)
	}
	if len(filtered) == 0 {
		return out
	}

	counts := make(map[string]int)
	for _, tok := range filtered {
		counts[tok]++
	}
	for i := 0; i+1 < len(filtered); i++ {
		counts[filtered[i]+" "+filtered[i+1]]++
	}

	denominator := float64(len(filtered))
	for term, count := range counts {
		density := float64(count) / denominator * 100
		if density >= minDensity {
			out = append(out, model.KeywordDensity{Term: term, Density: model.Round2(density)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Density != out[j].Density {
			return out[i].Density > out[j].Density
		}
		return out[i].Term < out[j].Term
	})
	if topN >= 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// TargetKeywordShare returns the share of text's words taken by keyword, in
// percent rounded to two decimals. Multi-word keywords count whole-phrase
// occurrences.
func TargetKeywordShare(text, keyword string) float64 {
	words := Words(foldCase(text))
	phrase := Words(foldCase(keyword))
	if len(words) == 0 || len(phrase) == 0 {
		return 0
	}

	hits := 0
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j, p := range phrase {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			hits++
		}
	}
	return model.Round2(float64(hits) / float64(len(words)) * 100)
}
