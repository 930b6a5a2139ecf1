package tajwid

import (
	"fmt"
	"math"
	"strings"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

const missingWord = "(manquant)"

// isQuranicMark reports whether r is a harakah, tanween, shadda, sukun,
// superscript alif or one of the small Quranic annotation marks.
func isQuranicMark(r rune) bool {
	return IsDiacritic(r) ||
		r == '\u0670' ||
		(r >= '\u06D6' && r <= '\u06ED')
}

// Normalize strips diacritics and Quranic marks and collapses whitespace
func Normalize(s string) string {
	stripped := strings.Map(func(r rune) rune {
		if isQuranicMark(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(stripped), " ")
}

// CompareRecitation aligns expected and recited words by position.
//
// The alignment is positional: one inserted or dropped word shifts every
// following word and shows up as a run of mismatches.
func CompareRecitation(expected, recited string) domain.ComparisonResult {
	expectedNorm := Normalize(expected)
	recitedNorm := Normalize(recited)

	// Nothing expected and nothing recited is not a perfect recitation.
	if expectedNorm == "" && recitedNorm == "" {
		return domain.ComparisonResult{Accuracy: 0, Differences: []string{}}
	}
	if expectedNorm == recitedNorm {
		return domain.ComparisonResult{Accuracy: 100, Differences: []string{}}
	}

	expectedWords := strings.Split(expectedNorm, " ")
	recitedWords := strings.Split(recitedNorm, " ")
	if expectedNorm == "" {
		expectedWords = nil
	}
	if recitedNorm == "" {
		recitedWords = nil
	}

	maxLen := max(len(expectedWords), len(recitedWords))
	differences := make([]string, 0)
	matches := 0
	for i := 0; i < maxLen; i++ {
		want := wordAt(expectedWords, i)
		got := wordAt(recitedWords, i)
		if want != "" && want == got {
			matches++
			continue
		}
		differences = append(differences, fmt.Sprintf("Mot %d: attendu \"%s\" recu \"%s\"", i+1, orMissing(want), orMissing(got)))
	}

	accuracy := 0
	if maxLen > 0 {
		accuracy = int(math.Round(float64(matches) / float64(maxLen) * 100))
	}
	return domain.ComparisonResult{Accuracy: accuracy, Differences: differences}
}

func wordAt(words []string, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}

func orMissing(word string) string {
	if word == "" {
		return missingWord
	}
	return word
}
