package score

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carescout/carescout/internal/model"
)

func TestComputeSumsMatchingWeights(t *testing.T) {
	t.Parallel()

	weights := map[string]int{
		WeightMandarin:       2,
		WeightMeals:          1,
		WeightCurriculum:     1,
		WeightStaffStability: 3,
		WeightDiversity:      1,
		WeightDiscount:       2,
	}
	rec := model.ExtractedRecord{
		Mandarin:          "Yes",
		MealsProvided:     "No",
		Curriculum:        "",
		StaffStability:    "Yes",
		CulturalDiversity: "Low",
	}

	assert.Equal(t, 5, Compute(rec, "No", weights))
}

func TestComputeTable(t *testing.T) {
	t.Parallel()

	weights := DefaultWeights()

	tests := []struct {
		name     string
		rec      model.ExtractedRecord
		discount string
		want     int
	}{
		{
			name:     "nothing credited",
			rec:      model.DefaultRecord(),
			discount: "No",
			want:     0,
		},
		{
			name: "everything credited",
			rec: model.ExtractedRecord{
				Mandarin:          "Yes",
				MealsProvided:     "Yes",
				Curriculum:        "Montessori",
				StaffStability:    "Yes",
				CulturalDiversity: "High",
			},
			discount: "Yes",
			want:     10,
		},
		{
			name: "diversity only credits High",
			rec: model.ExtractedRecord{
				CulturalDiversity: "Medium",
			},
			discount: "No",
			want:     0,
		},
		{
			name:     "discount alone",
			rec:      model.DefaultRecord(),
			discount: "Yes",
			want:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Compute(tt.rec, tt.discount, weights))
		})
	}
}

func TestComputeMissingWeightKeysContributeZero(t *testing.T) {
	t.Parallel()

	rec := model.ExtractedRecord{Mandarin: "Yes", MealsProvided: "Yes"}
	assert.Equal(t, 2, Compute(rec, "Yes", map[string]int{WeightMandarin: 2}))
}

func TestClassifyType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want model.ProviderType
	}{
		{"Sunshine Academy", model.TypeCenter},
		{"Rainbow Montessori", model.TypeCenter},
		{"Downtown Learning Center", model.TypeCenter},
		{"Cozy Family Daycare", model.TypeFamily},
		{"Little Home Childcare", model.TypeFamily},
		{"Bright Montessori Family Center", model.TypeCenter},
		{"family home ACADEMY", model.TypeCenter},
		{"Happy Kids", model.TypeUnknown},
		{"", model.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyType(tt.name))
		})
	}
}

func TestCheckDiscount(t *testing.T) {
	t.Parallel()

	allow := []string{"abc learning"}
	assert.Equal(t, "Yes", CheckDiscount("ABC Learning Academy", allow))
	assert.Equal(t, "No", CheckDiscount("XYZ Daycare", allow))
	assert.Equal(t, "No", CheckDiscount("ABC Learning Academy", nil))
	assert.Equal(t, "No", CheckDiscount("Anything", []string{"", "  "}))
}

func TestTierLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "High", TierLabel(4))
	assert.Equal(t, "High", TierLabel(10))
	assert.Equal(t, "Medium", TierLabel(2))
	assert.Equal(t, "Medium", TierLabel(3))
	assert.Equal(t, "Low", TierLabel(1))
	assert.Equal(t, "Low", TierLabel(0))
}

func TestLoadAllowList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Missing file degrades to empty, no error.
	entries, err := LoadAllowList(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	path := filepath.Join(dir, "allow.json")
	require.NoError(t, os.WriteFile(path, []byte(`["abc learning", "bright horizons"]`), 0o644))

	entries, err = LoadAllowList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc learning", "bright horizons"}, entries)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0o644))
	_, err = LoadAllowList(bad)
	require.Error(t, err)
}
