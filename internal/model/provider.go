package model

// ProviderCandidate is a childcare provider returned by the places search
// or imported from a spreadsheet. Immutable once created; identity for
// caching purposes is the Name, case-insensitively.
type ProviderCandidate struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	Rating         float64  `json:"rating"`
	Website        string   `json:"website"`
	AltWebsites    []string `json:"alt_websites,omitempty"`
	DistanceMeters float64  `json:"distance_meters,omitempty"`
}

// URLs returns the primary website followed by any alternates, with
// empty entries dropped.
func (p ProviderCandidate) URLs() []string {
	var urls []string
	if p.Website != "" {
		urls = append(urls, p.Website)
	}
	for _, u := range p.AltWebsites {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// ProviderType classifies a provider as a center or a family/home program.
type ProviderType string

const (
	TypeCenter  ProviderType = "Center"
	TypeFamily  ProviderType = "Family"
	TypeUnknown ProviderType = "Unknown"
)

// ScoredProvider is a fully enriched provider row: the candidate fields,
// the extracted record, and the derived type, discount flag and score.
type ScoredProvider struct {
	ProviderCandidate
	ExtractedRecord

	Type         ProviderType `json:"type"`
	MSFTDiscount string       `json:"msft_discount"`
	Score        int          `json:"score"`
	Rank         int          `json:"rank,omitempty"`

	// Status records the enrichment outcome for this row ("ok", "cached",
	// "no website", ...) so a partial batch still exports a usable table.
	Status string `json:"status,omitempty"`
}

// RankProviders assigns 1-based ranks after a stable descending sort by
// Score. Ties keep their original order.
func RankProviders(providers []ScoredProvider) {
	// Insertion sort keeps the original order among equal scores and the
	// input sizes here are small.
	for i := 1; i < len(providers); i++ {
		for j := i; j > 0 && providers[j].Score > providers[j-1].Score; j-- {
			providers[j], providers[j-1] = providers[j-1], providers[j]
		}
	}
	for i := range providers {
		providers[i].Rank = i + 1
	}
}
