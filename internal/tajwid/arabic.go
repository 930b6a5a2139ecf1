package tajwid

// Arabic code points used by the rules. Diacritics (U+064B..U+0652) sit above
// the base letters (U+0621..U+064A) and immediately trail the letter they mark
// in fully vocalized Uthmani text.
const (
	fatha       = '\u064E'
	damma       = '\u064F'
	kasra       = '\u0650'
	sukun       = '\u0652'
	shadda      = '\u0651'
	tanweenFath = '\u064B'
	tanweenDamm = '\u064C'
	tanweenKasr = '\u064D'

	alif = '\u0627'
	ba   = '\u0628'
	ra   = '\u0631'
	lam  = '\u0644'
	meem = '\u0645'
	noon = '\u0646'
	waw  = '\u0648'
	ya   = '\u064A'

	firstLetter    = '\u0621'
	lastLetter     = '\u064A'
	firstDiacritic = '\u064B'
	lastDiacritic  = '\u0652'
)

// IsSukun reports whether r is the sukun mark
func IsSukun(r rune) bool {
	return r == sukun
}

// IsTanween reports whether r is one of the three nunation marks
func IsTanween(r rune) bool {
	return r == tanweenFath || r == tanweenDamm || r == tanweenKasr
}

// IsDiacritic reports whether r is a harakah, tanween, shadda or sukun
func IsDiacritic(r rune) bool {
	return r >= firstDiacritic && r <= lastDiacritic
}

func isBaseLetter(r rune) bool {
	return r >= firstLetter && r <= lastLetter
}

// NextLetter returns the first Arabic base letter after pos, skipping
// diacritics, spaces and any other non-letter rune.
func NextLetter(text []rune, pos int) (rune, bool) {
	if pos < -1 {
		pos = -1
	}
	for i := pos + 1; i < len(text); i++ {
		if isBaseLetter(text[i]) {
			return text[i], true
		}
	}
	return 0, false
}

// DiacriticAfter returns the rune at pos+1 when it is a diacritic
func DiacriticAfter(text []rune, pos int) (rune, bool) {
	if pos < -1 || pos+1 >= len(text) {
		return 0, false
	}
	if next := text[pos+1]; IsDiacritic(next) {
		return next, true
	}
	return 0, false
}

func isSakinOrTanween(text []rune, pos int) bool {
	diac, ok := DiacriticAfter(text, pos)
	return ok && (IsSukun(diac) || IsTanween(diac))
}

func letterIn(r rune, set []rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}
