package application

import "github.com/escalopa/quran-tajwid-bot/internal/domain"

// feedbackRule is one fixed feedback line and the word accuracy it needs
type feedbackRule struct {
	rule      string
	threshold int
	ok        string
	failed    string
	tip       string
}

// These lines are driven by word accuracy, not by the engine's per-rule
// breakdown. See DESIGN.md before changing the semantics.
var feedbackRules = []feedbackRule{
	{"Ghunnah (nasalisation)", 60, "correct", "manquant", "Prolonge le son nasal de 2 temps sur noon/meem avec shadda."},
	{"Madd naturel", 55, "correct", "trop court", "Allonge la voyelle longue de 2 temps."},
	{"Ikhfa (dissimulation)", 65, "correct", "absent", "Le noon sakin doit être prononcé de façon nasale et légère devant les lettres d'ikhfa."},
	{"Qalqalah (rebond)", 50, "correct", "faible", "Les lettres ق ط ب ج د doivent rebondir clairement en position de sukun."},
	{"Idgham (fusion)", 70, "correct", "manquant", "Le noon sakin doit être fusionné avec la lettre suivante (ي ن م و ل ر)."},
}

// FeedbackDetails builds the five user-facing Tajwid feedback lines
func FeedbackDetails(accuracy int) []domain.FeedbackDetail {
	details := make([]domain.FeedbackDetail, len(feedbackRules))
	for i, fr := range feedbackRules {
		status := fr.failed
		if accuracy >= fr.threshold {
			status = fr.ok
		}
		details[i] = domain.FeedbackDetail{Rule: fr.rule, Status: status, Tip: fr.tip}
	}
	return details
}
