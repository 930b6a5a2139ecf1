package domain

import "testing"

func TestSurahCatalogue(t *testing.T) {
	surahs := GetAllSurahs()
	if len(surahs) != 114 {
		t.Fatalf("expected 114 surahs, got %d", len(surahs))
	}

	total := 0
	for i, s := range surahs {
		if s.Number != i+1 {
			t.Errorf("surah at index %d has number %d", i, s.Number)
		}
		if s.Name == "" || s.Ayahs <= 0 {
			t.Errorf("surah %d is incomplete: %+v", s.Number, s)
		}
		total += s.Ayahs
	}
	if total != 6236 {
		t.Errorf("total ayahs = %d, want 6236", total)
	}

	surahs[0].Name = "changed"
	if s, _ := GetSurah(1); s.Name == "changed" {
		t.Error("GetAllSurahs must return a copy")
	}
}

func TestGetSurah(t *testing.T) {
	if s, ok := GetSurah(2); !ok || s.Ayahs != 286 {
		t.Errorf("GetSurah(2) = %+v, %v", s, ok)
	}
	for _, n := range []int{0, 115, -1} {
		if _, ok := GetSurah(n); ok {
			t.Errorf("GetSurah(%d) should fail", n)
		}
	}
}

func TestFormatIDs(t *testing.T) {
	if got := FormatAyahID(2, 255); got != "002255" {
		t.Errorf("FormatAyahID = %q", got)
	}
	if got := (Ayah{SurahNumber: 112, AyahNumber: 1}).AyahID(); got != "112001" {
		t.Errorf("AyahID = %q", got)
	}
	if got := FormatVerseKey(2, 255); got != "2:255" {
		t.Errorf("FormatVerseKey = %q", got)
	}
}

func TestJuzSurahs(t *testing.T) {
	for juz := 1; juz <= JuzCount; juz++ {
		list := JuzSurahs(juz)
		if len(list) == 0 {
			t.Errorf("juz %d has no surahs", juz)
		}
		for _, n := range list {
			if _, ok := GetSurah(n); !ok {
				t.Errorf("juz %d references unknown surah %d", juz, n)
			}
		}
	}

	if JuzSurahs(31) != nil {
		t.Error("unknown juz should return nil")
	}

	list := JuzSurahs(1)
	list[0] = 99
	if JuzSurahs(1)[0] == 99 {
		t.Error("JuzSurahs must return a copy")
	}
}

func TestRecitationResultPassed(t *testing.T) {
	tests := map[int]bool{100: true, 70: true, 69: false, 0: false}
	for score, want := range tests {
		r := &RecitationResult{OverallScore: score}
		if got := r.Passed(); got != want {
			t.Errorf("Passed() with %d = %v, want %v", score, got, want)
		}
	}
}
