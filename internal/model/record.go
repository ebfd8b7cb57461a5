package model

import "strings"

// ExtractedRecord is the fixed six-field structured summary of a
// provider's program. The JSON keys match what the model is instructed
// to emit. All six keys are always present; on extraction failure the
// record equals DefaultRecord().
type ExtractedRecord struct {
	AgesServed        string `json:"AgesServed"`
	Mandarin          string `json:"Mandarin"`          // Yes/No
	MealsProvided     string `json:"MealsProvided"`     // Yes/No
	Curriculum        string `json:"Curriculum"`        // free text, empty when unknown
	CulturalDiversity string `json:"CulturalDiversity"` // High/Medium/Low/Unknown
	StaffStability    string `json:"StaffStability"`    // Yes/No
}

// DefaultRecord returns the fallback record substituted after extraction
// exhausts its retries.
func DefaultRecord() ExtractedRecord {
	return ExtractedRecord{
		AgesServed:        "",
		Mandarin:          "No",
		MealsProvided:     "No",
		Curriculum:        "",
		CulturalDiversity: "Unknown",
		StaffStability:    "No",
	}
}

// Normalize clamps the enum fields to their value domains. Model output
// is untrusted text; anything outside the domain collapses to the
// no-credit default for that field.
func (r ExtractedRecord) Normalize() ExtractedRecord {
	r.Mandarin = normalizeYesNo(r.Mandarin)
	r.MealsProvided = normalizeYesNo(r.MealsProvided)
	r.StaffStability = normalizeYesNo(r.StaffStability)
	r.CulturalDiversity = normalizeDiversity(r.CulturalDiversity)
	r.AgesServed = strings.TrimSpace(r.AgesServed)
	r.Curriculum = strings.TrimSpace(r.Curriculum)
	return r
}

func normalizeYesNo(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "yes") {
		return "Yes"
	}
	return "No"
}

func normalizeDiversity(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return "High"
	case "medium":
		return "Medium"
	case "low":
		return "Low"
	default:
		return "Unknown"
	}
}

// RecordMeta is the optional metadata stored alongside a cached record:
// how the content was scraped and how much of it there was.
type RecordMeta struct {
	Method          string   `json:"scraping_method,omitempty"`
	PagesScraped    int      `json:"pages_scraped,omitempty"`
	TotalURLs       int      `json:"total_urls_provided,omitempty"`
	ScrapedURLs     []string `json:"scraped_urls,omitempty"`
	FailedURLs      []string `json:"failed_urls,omitempty"`
	TotalTextLength int      `json:"total_text_length,omitempty"`
}
