// Package tajwid detects Tajwid rules in vocalized Quranic text and compares
// a recited transcript against the canonical text.
//
// Every function in this package is pure and safe for concurrent use. Offsets
// in results are rune offsets into the analyzed text.
package tajwid

import (
	"math"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

// AvailableRules lists the rule catalogue in declaration order
func AvailableRules() []domain.RuleInfo {
	infos := make([]domain.RuleInfo, len(allRules))
	for i, rule := range allRules {
		infos[i] = rule.Info()
	}
	return infos
}

// IsKnownRule reports whether id names a rule of the catalogue
func IsKnownRule(id string) bool {
	for _, rule := range allRules {
		if rule.Info().ID == id {
			return true
		}
	}
	return false
}

// Analyze runs the active rules over every position of text.
//
// A nil activeRuleIDs runs every rule; a non-nil slice restricts analysis to
// the listed ids (unknown ids are ignored, an empty slice runs nothing).
func Analyze(text string, activeRuleIDs []string) *domain.TajwidAnalysis {
	rules := selectRules(activeRuleIDs)
	runes := []rune(text)

	occurrences := make([]domain.TajwidOccurrence, 0)
	for i := range runes {
		for _, rule := range rules {
			if occ := rule.Detect(runes, i); occ != nil {
				occurrences = append(occurrences, *occ)
			}
		}
	}

	breakdown := make(map[string]domain.RuleTally)
	errors := 0
	for _, occ := range occurrences {
		tally := breakdown[occ.RuleID]
		tally.Found++
		if occ.Severity == domain.SeverityError {
			tally.Errors++
			errors++
		}
		breakdown[occ.RuleID] = tally
	}

	return &domain.TajwidAnalysis{
		Text:          text,
		Occurrences:   occurrences,
		Score:         score(len(occurrences), errors),
		RuleBreakdown: breakdown,
	}
}

// score is 100 for a text without matches, otherwise the share of matches
// that are not errors.
func score(total, errors int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(total-errors) / float64(total) * 100))
}

func selectRules(ids []string) []Rule {
	if ids == nil {
		return allRules
	}
	active := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		active[id] = struct{}{}
	}
	rules := make([]Rule, 0, len(ids))
	for _, rule := range allRules {
		if _, ok := active[rule.Info().ID]; ok {
			rules = append(rules, rule)
		}
	}
	return rules
}
