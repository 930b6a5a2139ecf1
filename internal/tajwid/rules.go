package tajwid

import (
	"fmt"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

// Rule detects one Tajwid pattern starting at a given rune position.
// Detect must be pure: no I/O and no shared mutable state.
type Rule interface {
	Info() domain.RuleInfo
	Detect(text []rune, pos int) *domain.TajwidOccurrence
}

// Stable rule ids. They are persisted in user preferences.
const (
	RuleNoonSakinahIkhfa  = "noon_sakinah_ikhfa"
	RuleNoonSakinahIdgham = "noon_sakinah_idgham"
	RuleNoonSakinahIqlab  = "noon_sakinah_iqlab"
	RuleQalqalah          = "qalqalah"
	RuleGhunnah           = "ghunnah"
	RuleMaddNatural       = "madd_natural"
	RuleMeemSakinahIkhfa  = "meem_sakinah_ikhfa"
)

var (
	// ت ث ج د ذ ز س ش ص ض ط ظ ف ق ك
	ikhfaLetters = []rune{
		'ت', 'ث', 'ج', 'د', 'ذ',
		'ز', 'س', 'ش', 'ص', 'ض',
		'ط', 'ظ', 'ف', 'ق', 'ك',
	}
	// ق ط ب ج د
	qalqalahLetters = []rune{'ق', 'ط', ba, 'ج', 'د'}

	idghamWithGhunnah    = []rune{ya, noon, meem, waw}
	idghamWithoutGhunnah = []rune{lam, ra}
)

type baseRule struct {
	info domain.RuleInfo
}

func (b baseRule) Info() domain.RuleInfo {
	return b.info
}

func (b baseRule) occurrence(start, end int, description string) *domain.TajwidOccurrence {
	return &domain.TajwidOccurrence{
		RuleID:      b.info.ID,
		RuleName:    b.info.Name,
		Start:       start,
		End:         end,
		Category:    b.info.Category,
		Severity:    domain.SeverityInfo,
		Description: description,
	}
}

func at(text []rune, pos int) (rune, bool) {
	if pos < 0 || pos >= len(text) {
		return 0, false
	}
	return text[pos], true
}

// noonSakinahIkhfa: noon with sukun or tanween before one of the 15 ikhfa letters.
type noonSakinahIkhfa struct{ baseRule }

func (r noonSakinahIkhfa) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	if c, ok := at(text, pos); !ok || c != noon || !isSakinOrTanween(text, pos) {
		return nil
	}
	next, ok := NextLetter(text, pos)
	if !ok || !letterIn(next, ikhfaLetters) {
		return nil
	}
	return r.occurrence(pos, pos+2, fmt.Sprintf("Ikhfa: Noon sakinah avant %c, nasaliser et cacher", next))
}

// noonSakinahIdgham: noon with sukun or tanween before one of ي ن م و ل ر.
type noonSakinahIdgham struct{ baseRule }

func (r noonSakinahIdgham) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	if c, ok := at(text, pos); !ok || c != noon || !isSakinOrTanween(text, pos) {
		return nil
	}
	next, ok := NextLetter(text, pos)
	if !ok {
		return nil
	}
	switch {
	case letterIn(next, idghamWithGhunnah):
		return r.occurrence(pos, pos+2, fmt.Sprintf("Idgham avec ghunnah: fusionner noon dans %c", next))
	case letterIn(next, idghamWithoutGhunnah):
		return r.occurrence(pos, pos+2, fmt.Sprintf("Idgham sans ghunnah: fusionner noon dans %c", next))
	}
	return nil
}

// noonSakinahIqlab: noon with sukun or tanween before ba.
type noonSakinahIqlab struct{ baseRule }

func (r noonSakinahIqlab) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	if c, ok := at(text, pos); !ok || c != noon || !isSakinOrTanween(text, pos) {
		return nil
	}
	if next, ok := NextLetter(text, pos); !ok || next != ba {
		return nil
	}
	return r.occurrence(pos, pos+2, "Iqlab: Noon avant Ba, prononcer comme Meem avec ghunnah")
}

// qalqalah: one of ق ط ب ج د carrying a sukun.
type qalqalah struct{ baseRule }

func (r qalqalah) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	c, ok := at(text, pos)
	if !ok || !letterIn(c, qalqalahLetters) {
		return nil
	}
	if diac, ok := DiacriticAfter(text, pos); !ok || !IsSukun(diac) {
		return nil
	}
	return r.occurrence(pos, pos+1, fmt.Sprintf("Qalqalah sur %c, produire un son rebondissant", c))
}

// ghunnah: noon or meem carrying a shadda.
type ghunnah struct{ baseRule }

func (r ghunnah) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	c, ok := at(text, pos)
	if !ok || (c != noon && c != meem) {
		return nil
	}
	if diac, ok := DiacriticAfter(text, pos); !ok || diac != shadda {
		return nil
	}
	letter := "Noon"
	if c == meem {
		letter = "Meem"
	}
	return r.occurrence(pos, pos+1, fmt.Sprintf("Ghunnah: %s mushaddad, tenir le nasal 2 temps", letter))
}

// maddNatural: alif directly preceded by a fatha. Waw after damma and ya
// after kasra are not detected yet. The span starts at the fatha.
type maddNatural struct{ baseRule }

func (r maddNatural) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	c, ok := at(text, pos)
	if !ok || c != alif || pos < 1 {
		return nil
	}
	if text[pos-1] != fatha {
		return nil
	}
	return r.occurrence(pos-1, pos+1, "Madd Tabii: allonger de 2 temps")
}

// meemSakinahIkhfa: meem with sukun before ba (ikhfa shafawi).
type meemSakinahIkhfa struct{ baseRule }

func (r meemSakinahIkhfa) Detect(text []rune, pos int) *domain.TajwidOccurrence {
	if c, ok := at(text, pos); !ok || c != meem {
		return nil
	}
	if diac, ok := DiacriticAfter(text, pos); !ok || !IsSukun(diac) {
		return nil
	}
	if next, ok := NextLetter(text, pos); !ok || next != ba {
		return nil
	}
	return r.occurrence(pos, pos+2, "Ikhfa Shafawi: Meem sakinah avant Ba, nasaliser aux levres")
}

// allRules is the closed rule set in declaration order. Analysis output
// follows this order for matches at the same position.
var allRules = []Rule{
	noonSakinahIkhfa{baseRule{domain.RuleInfo{
		ID:          RuleNoonSakinahIkhfa,
		Name:        "Ikhfa (Noon Sakinah)",
		NameAr:      "إخفاء النون الساكنة",
		Category:    domain.CategoryIkhfa,
		Description: "Noon sakinah/tanween suivi de 15 lettres Ikhfa, nasaliser et cacher",
	}}},
	noonSakinahIdgham{baseRule{domain.RuleInfo{
		ID:          RuleNoonSakinahIdgham,
		Name:        "Idgham (Noon Sakinah)",
		NameAr:      "إدغام",
		Category:    domain.CategoryIdgham,
		Description: "Noon sakinah/tanween suivi de YMNWLR, fusionner",
	}}},
	noonSakinahIqlab{baseRule{domain.RuleInfo{
		ID:          RuleNoonSakinahIqlab,
		Name:        "Iqlab",
		NameAr:      "إقلاب",
		Category:    domain.CategoryIqlab,
		Description: "Noon sakinah/tanween suivi de Ba, transformer en son Meem",
	}}},
	qalqalah{baseRule{domain.RuleInfo{
		ID:          RuleQalqalah,
		Name:        "Qalqalah",
		NameAr:      "قلقلة",
		Category:    domain.CategoryQalqalah,
		Description: "Lettres Qalqalah avec sukun, son rebondissant",
	}}},
	ghunnah{baseRule{domain.RuleInfo{
		ID:          RuleGhunnah,
		Name:        "Ghunnah",
		NameAr:      "غنّة",
		Category:    domain.CategoryGhunnah,
		Description: "Noon ou Meem avec shadda, son nasal 2 temps",
	}}},
	maddNatural{baseRule{domain.RuleInfo{
		ID:          RuleMaddNatural,
		Name:        "Madd Tabii (Naturel)",
		NameAr:      "مد طبيعي",
		Category:    domain.CategoryMadd,
		Description: "Elongation naturelle, alif apres fatha, waw apres damma, ya apres kasra",
	}}},
	meemSakinahIkhfa{baseRule{domain.RuleInfo{
		ID:          RuleMeemSakinahIkhfa,
		Name:        "Ikhfa Shafawi",
		NameAr:      "إخفاء شفوي",
		Category:    domain.CategoryMeemSakinah,
		Description: "Meem sakinah suivi de Ba, nasaliser aux levres",
	}}},
}
