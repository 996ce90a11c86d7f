package analyzer

import (
	"regexp"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

var (
	// sentenceSplit separates sentences on runs of terminal punctuation.
	sentenceSplit = regexp.MustCompile(`[.!?]+`)

	// wordPattern matches words made of Unicode letters, marks, digits and underscore.
	wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

	// vowelGroup matches a run of vowels.
	vowelGroup = regexp.MustCompile(`[aeiouy]+`)
)

// Words returns the word tokens of text.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// Sentences returns the non-blank sentence segments of text.
func Sentences(text string) []string {
	out := make([]string, 0)
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// FleschReadingEase scores text with the Flesch Reading Ease formula:
//
//	206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
//
// clamped to [0, 100] and rounded to one decimal. Text with fewer than five
// words or no sentence scores 0.
func FleschReadingEase(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	sentences := Sentences(text)
	words := Words(text)
	if len(sentences) == 0 || len(words) < 5 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}
	if syllables == 0 {
		return 0
	}

	nw := float64(len(words))
	score := 206.835 - 1.015*(nw/float64(len(sentences))) - 84.6*(float64(syllables)/nw)
	return model.Round1(min(100, max(0, score)))
}

// CountSyllables estimates the syllables of an English word.
//
// Words of up to three letters have one syllable. An "es"/"ed" suffix after
// t, d or s is dropped on longer words, otherwise a silent trailing "e" (but
// not "le") is dropped, in both cases only when vowels remain. Vowel groups
// are then counted, a consonant + "le" ending adds one, and the result is at
// least one.
func CountSyllables(word string) int {
	w := []rune(strings.ToLower(strings.TrimSpace(word)))
	if len(w) == 0 {
		return 0
	}
	if len(w) <= 3 {
		return 1
	}

	s := string(w)
	if (strings.HasSuffix(s, "es") || strings.HasSuffix(s, "ed")) && len(w) > 4 {
		if strings.ContainsRune("tds", w[len(w)-3]) {
			if trimmed := w[:len(w)-2]; vowelGroup.MatchString(string(trimmed)) {
				w = trimmed
			}
		}
	} else if strings.HasSuffix(s, "e") && !strings.HasSuffix(s, "le") {
		if trimmed := w[:len(w)-1]; vowelGroup.MatchString(string(trimmed)) {
			w = trimmed
		}
	}

	s = string(w)
	groups := vowelGroup.FindAllString(s, -1)
	count := len(groups)

	if strings.HasSuffix(s, "le") && len(w) > 2 && !strings.ContainsRune("aeiouy", w[len(w)-3]) {
		last := ""
		if len(groups) > 0 {
			last = groups[len(groups)-1]
		}
		if !(last != "" && strings.HasSuffix(last, "e") && strings.HasSuffix(s, last+"le")) {
			count++
		}
	}

	return max(1, count)
}
