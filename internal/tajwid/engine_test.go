package tajwid

import (
	"reflect"
	"strings"
	"testing"

	"github.com/escalopa/quran-tajwid-bot/internal/domain"
)

func TestAvailableRules(t *testing.T) {
	rules := AvailableRules()
	if len(rules) < 7 {
		t.Fatalf("expected at least 7 rules, got %d", len(rules))
	}

	seen := make(map[string]bool)
	for _, rule := range rules {
		if rule.ID == "" || rule.Name == "" || rule.NameAr == "" || rule.Category == "" {
			t.Errorf("rule has empty required field: %+v", rule)
		}
		if seen[rule.ID] {
			t.Errorf("duplicate rule id %q", rule.ID)
		}
		seen[rule.ID] = true
	}

	for _, id := range []string{RuleNoonSakinahIkhfa, RuleQalqalah, RuleGhunnah} {
		if !seen[id] {
			t.Errorf("expected rule %q in catalogue", id)
		}
	}
}

func TestAvailableRules_ReturnsCopy(t *testing.T) {
	rules := AvailableRules()
	rules[0].ID = "mutated"

	if AvailableRules()[0].ID != RuleNoonSakinahIkhfa {
		t.Error("mutating the listing must not change the catalogue")
	}
}

func TestAnalyze_SingleRule(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		ruleID    string
		start     int
		end       int
		descMatch string
	}{
		{"ghunnah on noon", "نّ", RuleGhunnah, 0, 1, "Noon"},
		{"ghunnah on meem", "مّ", RuleGhunnah, 0, 1, "Meem"},
		{"qalqalah on ba", "بْ", RuleQalqalah, 0, 1, "ب"},
		{"qalqalah on dal", "قَدْ", RuleQalqalah, 2, 3, "د"},
		{"iqlab", "نْب", RuleNoonSakinahIqlab, 0, 2, "Iqlab"},
		{"ikhfa with tanween", "نً ت", RuleNoonSakinahIkhfa, 0, 2, "ت"},
		{"idgham with ghunnah", "مَنْ يَقُولُ", RuleNoonSakinahIdgham, 2, 4, "avec ghunnah"},
		{"idgham without ghunnah", "نْ ل", RuleNoonSakinahIdgham, 0, 2, "sans ghunnah"},
		{"ikhfa shafawi", "هُمْ بِهِ", RuleMeemSakinahIkhfa, 2, 4, "Meem"},
		{"madd after fatha", "قَالَ", RuleMaddNatural, 1, 3, "Madd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.text, nil)
			if len(result.Occurrences) != 1 {
				t.Fatalf("expected 1 occurrence, got %d: %+v", len(result.Occurrences), result.Occurrences)
			}

			occ := result.Occurrences[0]
			if occ.RuleID != tt.ruleID {
				t.Errorf("RuleID = %q, want %q", occ.RuleID, tt.ruleID)
			}
			if occ.Start != tt.start || occ.End != tt.end {
				t.Errorf("span = [%d,%d), want [%d,%d)", occ.Start, occ.End, tt.start, tt.end)
			}
			if occ.Severity != domain.SeverityInfo {
				t.Errorf("Severity = %q, want info", occ.Severity)
			}
			if !strings.Contains(occ.Description, tt.descMatch) {
				t.Errorf("Description %q does not contain %q", occ.Description, tt.descMatch)
			}
			if result.Score != 100 {
				t.Errorf("Score = %d, want 100", result.Score)
			}
		})
	}
}

func TestAnalyze_NoMatches(t *testing.T) {
	for _, text := range []string{"", "hello", "ب", "سَمِيعٌ"} {
		result := Analyze(text, nil)
		if len(result.Occurrences) != 0 {
			t.Errorf("Analyze(%q) found %d occurrences, want 0", text, len(result.Occurrences))
		}
		if result.Score != 100 {
			t.Errorf("Analyze(%q).Score = %d, want 100", text, result.Score)
		}
		if result.Text != text {
			t.Errorf("Analyze(%q).Text = %q", text, result.Text)
		}
	}
}

func TestAnalyze_DocumentOrder(t *testing.T) {
	// ba+sukun then noon+shadda, and a noon sakinah before ta followed by a madd
	text := "بْنّ مِنْ تَحْتِهَا"
	result := Analyze(text, nil)

	var got []string
	for _, occ := range result.Occurrences {
		got = append(got, occ.RuleID)
	}
	want := []string{RuleQalqalah, RuleGhunnah, RuleNoonSakinahIkhfa, RuleMaddNatural}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rule order = %v, want %v", got, want)
	}

	for i := 1; i < len(result.Occurrences); i++ {
		if result.Occurrences[i].Start < result.Occurrences[i-1].Start {
			t.Errorf("occurrences not in ascending start order: %+v", result.Occurrences)
		}
	}

	if result.RuleBreakdown[RuleQalqalah].Found != 1 {
		t.Errorf("breakdown[qalqalah] = %+v", result.RuleBreakdown[RuleQalqalah])
	}
	if len(result.RuleBreakdown) != 4 {
		t.Errorf("expected 4 breakdown entries, got %d", len(result.RuleBreakdown))
	}
}

func TestAnalyze_Breakdown(t *testing.T) {
	text := "نّ مّ بْ"
	result := Analyze(text, nil)

	if got := result.RuleBreakdown[RuleGhunnah]; got.Found != 2 || got.Errors != 0 {
		t.Errorf("breakdown[ghunnah] = %+v, want {Found:2 Errors:0}", got)
	}
	if got := result.RuleBreakdown[RuleQalqalah]; got.Found != 1 {
		t.Errorf("breakdown[qalqalah] = %+v, want Found 1", got)
	}
}

func TestAnalyze_Filtering(t *testing.T) {
	text := "بْنّ"

	result := Analyze(text, []string{RuleQalqalah})
	for _, occ := range result.Occurrences {
		if occ.RuleID == RuleGhunnah {
			t.Errorf("ghunnah reported although only qalqalah is active")
		}
	}
	if len(result.Occurrences) != 1 {
		t.Errorf("expected 1 qalqalah occurrence, got %d", len(result.Occurrences))
	}

	empty := Analyze(text, []string{})
	if len(empty.Occurrences) != 0 || empty.Score != 100 {
		t.Errorf("empty rule list: got %d occurrences, score %d", len(empty.Occurrences), empty.Score)
	}

	unknown := Analyze(text, []string{"does_not_exist"})
	if len(unknown.Occurrences) != 0 {
		t.Errorf("unknown rule id should match nothing, got %d", len(unknown.Occurrences))
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	text := "بْنّ مِنْ ت"
	first := Analyze(text, nil)
	second := Analyze(text, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		total, errors, want int
	}{
		{0, 0, 100},
		{4, 0, 100},
		{4, 1, 75},
		{3, 1, 67},
		{2, 2, 0},
	}
	for _, tt := range tests {
		if got := score(tt.total, tt.errors); got != tt.want {
			t.Errorf("score(%d, %d) = %d, want %d", tt.total, tt.errors, got, tt.want)
		}
	}
}

func TestIsKnownRule(t *testing.T) {
	if !IsKnownRule(RuleMaddNatural) {
		t.Error("expected madd_natural to be known")
	}
	if IsKnownRule("madd_lazim") {
		t.Error("expected madd_lazim to be unknown")
	}
}
