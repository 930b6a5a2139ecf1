package domain

import "fmt"

var surahs = []Surah{
	{Number: 1, Name: "Al-Fatihah", Ayahs: 7},
	{Number: 2, Name: "Al-Baqarah", Ayahs: 286},
	{Number: 3, Name: "Ali 'Imran", Ayahs: 200},
	{Number: 4, Name: "An-Nisa", Ayahs: 176},
	{Number: 5, Name: "Al-Ma'idah", Ayahs: 120},
	{Number: 6, Name: "Al-An'am", Ayahs: 165},
	{Number: 7, Name: "Al-A'raf", Ayahs: 206},
	{Number: 8, Name: "Al-Anfal", Ayahs: 75},
	{Number: 9, Name: "At-Tawbah", Ayahs: 129},
	{Number: 10, Name: "Yunus", Ayahs: 109},
	{Number: 11, Name: "Hud", Ayahs: 123},
	{Number: 12, Name: "Yusuf", Ayahs: 111},
	{Number: 13, Name: "Ar-Ra'd", Ayahs: 43},
	{Number: 14, Name: "Ibrahim", Ayahs: 52},
	{Number: 15, Name: "Al-Hijr", Ayahs: 99},
	{Number: 16, Name: "An-Nahl", Ayahs: 128},
	{Number: 17, Name: "Al-Isra", Ayahs: 111},
	{Number: 18, Name: "Al-Kahf", Ayahs: 110},
	{Number: 19, Name: "Maryam", Ayahs: 98},
	{Number: 20, Name: "Taha", Ayahs: 135},
	{Number: 21, Name: "Al-Anbya", Ayahs: 112},
	{Number: 22, Name: "Al-Hajj", Ayahs: 78},
	{Number: 23, Name: "Al-Mu'minun", Ayahs: 118},
	{Number: 24, Name: "An-Nur", Ayahs: 64},
	{Number: 25, Name: "Al-Furqan", Ayahs: 77},
	{Number: 26, Name: "Ash-Shu'ara", Ayahs: 227},
	{Number: 27, Name: "An-Naml", Ayahs: 93},
	{Number: 28, Name: "Al-Qasas", Ayahs: 88},
	{Number: 29, Name: "Al-'Ankabut", Ayahs: 69},
	{Number: 30, Name: "Ar-Rum", Ayahs: 60},
	{Number: 31, Name: "Luqman", Ayahs: 34},
	{Number: 32, Name: "As-Sajdah", Ayahs: 30},
	{Number: 33, Name: "Al-Ahzab", Ayahs: 73},
	{Number: 34, Name: "Saba", Ayahs: 54},
	{Number: 35, Name: "Fatir", Ayahs: 45},
	{Number: 36, Name: "Ya-Sin", Ayahs: 83},
	{Number: 37, Name: "As-Saffat", Ayahs: 182},
	{Number: 38, Name: "Sad", Ayahs: 88},
	{Number: 39, Name: "Az-Zumar", Ayahs: 75},
	{Number: 40, Name: "Ghafir", Ayahs: 85},
	{Number: 41, Name: "Fussilat", Ayahs: 54},
	{Number: 42, Name: "Ash-Shuraa", Ayahs: 53},
	{Number: 43, Name: "Az-Zukhruf", Ayahs: 89},
	{Number: 44, Name: "Ad-Dukhan", Ayahs: 59},
	{Number: 45, Name: "Al-Jathiyah", Ayahs: 37},
	{Number: 46, Name: "Al-Ahqaf", Ayahs: 35},
	{Number: 47, Name: "Muhammad", Ayahs: 38},
	{Number: 48, Name: "Al-Fath", Ayahs: 29},
	{Number: 49, Name: "Al-Hujurat", Ayahs: 18},
	{Number: 50, Name: "Qaf", Ayahs: 45},
	{Number: 51, Name: "Adh-Dhariyat", Ayahs: 60},
	{Number: 52, Name: "At-Tur", Ayahs: 49},
	{Number: 53, Name: "An-Najm", Ayahs: 62},
	{Number: 54, Name: "Al-Qamar", Ayahs: 55},
	{Number: 55, Name: "Ar-Rahman", Ayahs: 78},
	{Number: 56, Name: "Al-Waqi'ah", Ayahs: 96},
	{Number: 57, Name: "Al-Hadid", Ayahs: 29},
	{Number: 58, Name: "Al-Mujadila", Ayahs: 22},
	{Number: 59, Name: "Al-Hashr", Ayahs: 24},
	{Number: 60, Name: "Al-Mumtahanah", Ayahs: 13},
	{Number: 61, Name: "As-Saf", Ayahs: 14},
	{Number: 62, Name: "Al-Jumu'ah", Ayahs: 11},
	{Number: 63, Name: "Al-Munafiqun", Ayahs: 11},
	{Number: 64, Name: "At-Taghabun", Ayahs: 18},
	{Number: 65, Name: "At-Talaq", Ayahs: 12},
	{Number: 66, Name: "At-Tahrim", Ayahs: 12},
	{Number: 67, Name: "Al-Mulk", Ayahs: 30},
	{Number: 68, Name: "Al-Qalam", Ayahs: 52},
	{Number: 69, Name: "Al-Haqqah", Ayahs: 52},
	{Number: 70, Name: "Al-Ma'arij", Ayahs: 44},
	{Number: 71, Name: "Nuh", Ayahs: 28},
	{Number: 72, Name: "Al-Jinn", Ayahs: 28},
	{Number: 73, Name: "Al-Muzzammil", Ayahs: 20},
	{Number: 74, Name: "Al-Muddaththir", Ayahs: 56},
	{Number: 75, Name: "Al-Qiyamah", Ayahs: 40},
	{Number: 76, Name: "Al-Insan", Ayahs: 31},
	{Number: 77, Name: "Al-Mursalat", Ayahs: 50},
	{Number: 78, Name: "An-Naba", Ayahs: 40},
	{Number: 79, Name: "An-Nazi'at", Ayahs: 46},
	{Number: 80, Name: "'Abasa", Ayahs: 42},
	{Number: 81, Name: "At-Takwir", Ayahs: 29},
	{Number: 82, Name: "Al-Infitar", Ayahs: 19},
	{Number: 83, Name: "Al-Mutaffifin", Ayahs: 36},
	{Number: 84, Name: "Al-Inshiqaq", Ayahs: 25},
	{Number: 85, Name: "Al-Buruj", Ayahs: 22},
	{Number: 86, Name: "At-Tariq", Ayahs: 17},
	{Number: 87, Name: "Al-A'la", Ayahs: 19},
	{Number: 88, Name: "Al-Ghashiyah", Ayahs: 26},
	{Number: 89, Name: "Al-Fajr", Ayahs: 30},
	{Number: 90, Name: "Al-Balad", Ayahs: 20},
	{Number: 91, Name: "Ash-Shams", Ayahs: 15},
	{Number: 92, Name: "Al-Layl", Ayahs: 21},
	{Number: 93, Name: "Ad-Duhaa", Ayahs: 11},
	{Number: 94, Name: "Ash-Sharh", Ayahs: 8},
	{Number: 95, Name: "At-Tin", Ayahs: 8},
	{Number: 96, Name: "Al-'Alaq", Ayahs: 19},
	{Number: 97, Name: "Al-Qadr", Ayahs: 5},
	{Number: 98, Name: "Al-Bayyinah", Ayahs: 8},
	{Number: 99, Name: "Az-Zalzalah", Ayahs: 8},
	{Number: 100, Name: "Al-'Adiyat", Ayahs: 11},
	{Number: 101, Name: "Al-Qari'ah", Ayahs: 11},
	{Number: 102, Name: "At-Takathur", Ayahs: 8},
	{Number: 103, Name: "Al-'Asr", Ayahs: 3},
	{Number: 104, Name: "Al-Humazah", Ayahs: 9},
	{Number: 105, Name: "Al-Fil", Ayahs: 5},
	{Number: 106, Name: "Quraysh", Ayahs: 4},
	{Number: 107, Name: "Al-Ma'un", Ayahs: 7},
	{Number: 108, Name: "Al-Kawthar", Ayahs: 3},
	{Number: 109, Name: "Al-Kafirun", Ayahs: 6},
	{Number: 110, Name: "An-Nasr", Ayahs: 3},
	{Number: 111, Name: "Al-Masad", Ayahs: 5},
	{Number: 112, Name: "Al-Ikhlas", Ayahs: 4},
	{Number: 113, Name: "Al-Falaq", Ayahs: 5},
	{Number: 114, Name: "An-Nas", Ayahs: 6},
}

// GetAllSurahs returns the 114 surahs in mushaf order
func GetAllSurahs() []Surah {
	out := make([]Surah, len(surahs))
	copy(out, surahs)
	return out
}

// GetSurah returns the surah with the given number
func GetSurah(number int) (Surah, bool) {
	if number < 1 || number > len(surahs) {
		return Surah{}, false
	}
	return surahs[number-1], true
}

// FormatAyahID formats a surah/ayah pair as XXXYYY
func FormatAyahID(surahNumber, ayahNumber int) string {
	return fmt.Sprintf("%03d%03d", surahNumber, ayahNumber)
}

// FormatVerseKey formats a surah/ayah pair as "S:A", the key used by the content API
func FormatVerseKey(surahNumber, ayahNumber int) string {
	return fmt.Sprintf("%d:%d", surahNumber, ayahNumber)
}

// juzSurahs lists, per juz, the surahs a learner memorizes to complete it.
var juzSurahs = map[int][]int{
	1: {1, 2}, 2: {2, 3}, 3: {3, 4}, 4: {4, 5}, 5: {4, 5},
	6: {5, 6}, 7: {6, 7}, 8: {7, 8}, 9: {7, 8}, 10: {8, 9},
	11: {9, 10}, 12: {11, 12}, 13: {12, 13}, 14: {15, 16}, 15: {17, 18},
	16: {18, 19}, 17: {21, 22}, 18: {23, 24}, 19: {25, 26}, 20: {27, 28},
	21: {29, 30}, 22: {33, 34}, 23: {36, 37}, 24: {39, 40}, 25: {41, 42},
	26: {46, 47}, 27: {51, 52}, 28: {58, 59}, 29: {67, 68}, 30: {78, 79},
}

// JuzCount is the number of juz in the Quran
const JuzCount = 30

// JuzSurahs returns the surahs of a juz, or nil for an unknown juz
func JuzSurahs(juz int) []int {
	list, ok := juzSurahs[juz]
	if !ok {
		return nil
	}
	out := make([]int, len(list))
	copy(out, list)
	return out
}
