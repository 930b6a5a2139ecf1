package domain

// Reciter is a qari whose verse-by-verse audio the Quran content API serves
type Reciter struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	NameAr string `json:"name_ar" yaml:"name_ar"`
	Style  string `json:"style" yaml:"style"`
}

// DefaultReciterID is Mishary Rashid Alafasy
const DefaultReciterID = "7"

var reciters = []Reciter{
	{ID: "7", Name: "Mishary Rashid Alafasy", NameAr: "مشاري العفاسي", Style: "Murattal lent et melodieux"},
	{ID: "1", Name: "Abdul Basit Abdul Samad", NameAr: "عبد الباسط عبد الصمد", Style: "Classique egyptien"},
	{ID: "5", Name: "Abu Bakr al-Shatri", NameAr: "أبو بكر الشاطري", Style: "Recitation de Makkah"},
	{ID: "6", Name: "Maher Al Muaiqly", NameAr: "ماهر المعيقلي", Style: "Imam Masjid al-Haram"},
	{ID: "10", Name: "Saad Al-Ghamdi", NameAr: "سعد الغامدي", Style: "Clair et distinct"},
	{ID: "12", Name: "Yasser Ad-Dossari", NameAr: "ياسر الدوسري", Style: "Emouvant et spirituel"},
}

// Reciters returns the supported reciters
func Reciters() []Reciter {
	out := make([]Reciter, len(reciters))
	copy(out, reciters)
	return out
}

func GetReciter(id string) (Reciter, bool) {
	for _, r := range reciters {
		if r.ID == id {
			return r, true
		}
	}
	return Reciter{}, false
}
