// Package router decides which assistant persona handles a user message.
// Classification is keyword containment over the normalized text, checked in
// a fixed priority order; no state, no network.
package router

import "strings"

// Category selects the persona and backend for a message.
type Category string

const (
	CategoryEducational Category = "educational"
	CategoryCreative    Category = "creative"
	CategoryGeneral     Category = "general"
)

// rule pairs a category with the keywords that select it. Rules are evaluated
// in order; the first containment match wins. Matching is substring-based, so
// a keyword inside a longer word still counts.
type rule struct {
	category Category
	keywords []string
}

var rules = []rule{
	{CategoryEducational, []string{
		"رياضيات", "فيزياء", "كيمياء", "تاريخ", "جغرافيا", "دراسة", "واجب", "امتحان",
	}},
	{CategoryCreative, []string{
		"قصة", "شعر", "إبداع", "كتابة", "تأليف", "فن",
	}},
}

// Normalize lower-cases and trims an utterance the way the classifier and the
// credit check expect to see it.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify maps raw user text to a category. Text with no keyword match is
// general conversation.
func Classify(text string) Category {
	normalized := Normalize(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(normalized, kw) {
				return r.category
			}
		}
	}
	return CategoryGeneral
}
