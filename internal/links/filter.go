package links

import "strings"

// defaultDeny drops URLs that almost never carry program information:
// contact/legal/admin pages, social outlinks and binary files.
var defaultDeny = []string{
	"contact", "admin", "login", "account", "cart", "checkout",
	"privacy", "terms", "legal", "policy", "careers",
	"facebook", "instagram", "twitter", "linkedin", "youtube",
	"sitemap", "feed", "rss", "wp-json",
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".zip", ".doc",
}

// defaultPriority floats pages likely to describe programs, staff,
// meals and enrollment to the front of the page budget.
var defaultPriority = []string{
	"program", "curriculum", "about", "staff", "teacher",
	"meal", "food", "menu", "lunch",
	"enroll", "admission", "tuition", "class",
	"infant", "toddler", "preschool", "care",
}

// Filter partitions discovered links into excluded, priority and
// regular sets by case-insensitive substring match. The substring lists
// are empirically tuned configuration, not logic.
type Filter struct {
	deny     []string
	priority []string
}

// NewFilter creates a Filter. Nil/empty lists select the defaults.
func NewFilter(deny, priority []string) *Filter {
	if len(deny) == 0 {
		deny = defaultDeny
	}
	if len(priority) == 0 {
		priority = defaultPriority
	}
	return &Filter{deny: lowerAll(deny), priority: lowerAll(priority)}
}

// Apply drops denied URLs and returns the remainder priority-first,
// each group preserving encounter order. The ordering maximizes
// information density within a page budget; it is a heuristic, not a
// relevance guarantee.
func (f *Filter) Apply(urls []string) []string {
	var priority, regular []string

	for _, u := range urls {
		lower := strings.ToLower(u)
		if containsAny(lower, f.deny) {
			continue
		}
		if containsAny(lower, f.priority) {
			priority = append(priority, u)
		} else {
			regular = append(regular, u)
		}
	}

	return append(priority, regular...)
}

// Excluded reports whether a single URL matches the denylist.
func (f *Filter) Excluded(u string) bool {
	return containsAny(strings.ToLower(u), f.deny)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
