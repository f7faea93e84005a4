package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Category is the display category of a PII field.
type Category string

const (
	CategoryPersonal Category = "Personal Info"
	CategoryContact  Category = "Contact"
	CategoryAddress  Category = "Address"
	CategoryPayment  Category = "Payment"
	CategoryAccount  Category = "Account"
	CategoryOther    Category = "Other"
)

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category Category
	Keywords []string
}

// DefaultRules returns the built-in PII keyword rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Category: CategoryPersonal, Keywords: []string{"name", "dob"}},
		{Category: CategoryContact, Keywords: []string{"email", "phone"}},
		{Category: CategoryAddress, Keywords: []string{"address", "street", "city", "state", "zip", "postcode", "country"}},
		{Category: CategoryPayment, Keywords: []string{"card", "payment"}},
		{Category: CategoryAccount, Keywords: []string{"login", "username", "password"}},
	}
}

// Classifier assigns PII keys to categories by case-insensitive keyword
// containment. Rules are tried in order and the first match wins; keys that
// match nothing are CategoryOther. A Classifier is immutable and safe for
// concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier compiles rules. Keywords are folded once here; empty
// keywords are dropped. Rules naming CategoryOther are ignored since Other
// is always the fallback.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, r := range rules {
		if r.Category == "" || r.Category == CategoryOther {
			continue
		}
		compiled := Rule{Category: r.Category}
		for _, kw := range r.Keywords {
			if kw = fold(kw); kw != "" {
				compiled.Keywords = append(compiled.Keywords, kw)
			}
		}
		c.rules = append(c.rules, compiled)
	}
	return c
}

// Default is the classifier built from DefaultRules.
var Default = NewClassifier(DefaultRules())

// Classify returns the category of key. It never fails.
func (c *Classifier) Classify(key string) Category {
	k := fold(key)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(k, kw) {
				return r.Category
			}
		}
	}
	return CategoryOther
}

// Categories returns every category in display order, Other last.
func (c *Classifier) Categories() []Category {
	out := make([]Category, 0, len(c.rules)+1)
	seen := make(map[Category]bool)
	for _, r := range c.rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return append(out, CategoryOther)
}

// fold normalizes s for caseless comparison. A Caser is stateful, so a
// fresh one is used per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}
