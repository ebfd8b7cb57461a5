// Package sheet reads provider candidates from and writes scored results
// to xlsx workbooks.
package sheet

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/carescout/carescout/internal/model"
	"github.com/carescout/carescout/internal/score"
)

// Sheet and column names. Import is header-driven, so column order in
// input files does not matter.
const (
	providersSheet = "Providers"
	weightsSheet   = "Weights"
)

var exportHeader = []string{
	"Name", "Address", "Phone", "Rating",
	"Website", "Website_2", "Website_3", "Distance",
	"Type", "AgesServed", "Mandarin", "MealsProvided",
	"Curriculum", "CulturalDiversity", "StaffStability",
	"MSFT_Discount", "Score", "Rank", "Status",
}

// ImportOptions configures Import.
type ImportOptions struct {
	SheetName string // empty means first sheet
	// KeepOnly drops every row whose Status cell is not "keep"
	// (case-insensitive). Used for manually triaged input files.
	KeepOnly bool
}

// Import reads provider rows from an xlsx file. The first row must be a
// header containing at least a Name column; all other columns are
// optional.
func Import(path string, opts ImportOptions) ([]model.ScoredProvider, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open %s", path)
	}

	s, err := pickSheet(f, opts.SheetName)
	if err != nil {
		return nil, err
	}
	if len(s.Rows) == 0 {
		return nil, eris.Errorf("sheet: %s is empty", path)
	}

	cols := headerIndex(s.Rows[0])
	if _, ok := cols["name"]; !ok {
		return nil, eris.Errorf("sheet: %s has no Name column", path)
	}

	var out []model.ScoredProvider
	for _, row := range s.Rows[1:] {
		cells := rowToStrings(row)
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}

		name := get("name")
		if name == "" {
			continue
		}

		status := get("status")
		if opts.KeepOnly && !strings.EqualFold(status, "keep") {
			continue
		}

		p := model.ScoredProvider{
			ProviderCandidate: model.ProviderCandidate{
				Name:           name,
				Address:        get("address"),
				Phone:          get("phone"),
				Rating:         parseFloat(get("rating")),
				Website:        get("website"),
				DistanceMeters: parseFloat(get("distance")),
			},
			ExtractedRecord: model.ExtractedRecord{
				AgesServed:        get("agesserved"),
				Mandarin:          get("mandarin"),
				MealsProvided:     get("mealsprovided"),
				Curriculum:        get("curriculum"),
				CulturalDiversity: get("culturaldiversity"),
				StaffStability:    get("staffstability"),
			},
			Type:         model.ProviderType(get("type")),
			MSFTDiscount: get("msft_discount"),
			Score:        parseInt(get("score")),
			Rank:         parseInt(get("rank")),
			Status:       status,
		}
		for _, alt := range []string{get("website_2"), get("website_3")} {
			if alt != "" {
				p.AltWebsites = append(p.AltWebsites, alt)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// Export writes scored providers to an xlsx workbook: a Providers sheet
// with one row per provider, and a Weights sheet describing the weight
// configuration the run used.
func Export(path string, providers []model.ScoredProvider, weights map[string]int) error {
	f := xlsx.NewFile()

	ps, err := f.AddSheet(providersSheet)
	if err != nil {
		return eris.Wrap(err, "sheet: add providers sheet")
	}
	writeRow(ps, exportHeader)

	for _, p := range providers {
		alt2, alt3 := "", ""
		if len(p.AltWebsites) > 0 {
			alt2 = p.AltWebsites[0]
		}
		if len(p.AltWebsites) > 1 {
			alt3 = p.AltWebsites[1]
		}
		writeRow(ps, []string{
			p.Name, p.Address, p.Phone, formatFloat(p.Rating),
			p.Website, alt2, alt3, formatFloat(p.DistanceMeters),
			string(p.Type), p.AgesServed, p.Mandarin, p.MealsProvided,
			p.Curriculum, p.CulturalDiversity, p.StaffStability,
			p.MSFTDiscount, strconv.Itoa(p.Score), strconv.Itoa(p.Rank), p.Status,
		})
	}

	ws, err := f.AddSheet(weightsSheet)
	if err != nil {
		return eris.Wrap(err, "sheet: add weights sheet")
	}
	writeRow(ws, []string{"Criterion", "Weight", "Tier"})
	for _, criterion := range []string{
		score.WeightMandarin, score.WeightMeals, score.WeightCurriculum,
		score.WeightStaffStability, score.WeightDiversity, score.WeightDiscount,
	} {
		w, ok := weights[criterion]
		if !ok {
			continue
		}
		writeRow(ws, []string{criterion, strconv.Itoa(w), score.TierLabel(w)})
	}

	return eris.Wrapf(f.Save(path), "sheet: save %s", path)
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		s, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("sheet: sheet %q not found", name)
		}
		return s, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("sheet: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// headerIndex maps lowercased header names to column positions.
func headerIndex(row *xlsx.Row) map[string]int {
	cols := make(map[string]int, len(row.Cells))
	for i, cell := range row.Cells {
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if name != "" {
			cols[name] = i
		}
	}
	return cols
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

func writeRow(s *xlsx.Sheet, values []string) {
	row := s.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
