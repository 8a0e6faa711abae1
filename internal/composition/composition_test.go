// ABOUTME: Tests for protocol selection, density formulas, and rounding.
// ABOUTME: Uses published Jackson-Pollock and Durnin-Womersley reference inputs.
package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func maleProfile() Profile        { return NewProfile(Male, 25, 80) }

func threeSiteMale() Measurements {
	return Measurements{}.Set(Chest, 10).Set(Abdomen, 20).Set(Thigh, 15)
}

func assertResult(t *testing.T, got *Result, protocol Protocol, sum, density, fat, lean, fatMass float64) {
	t.Helper()
	assert.Equal(t, protocol, got.Protocol)
	assert.InDelta(t, sum, got.SumMM, 1e-9)
	assert.InDelta(t, density, got.Density, 1e-9)
	assert.InDelta(t, fat, got.BodyFatPct, 1e-9)
	assert.InDelta(t, lean, got.LeanMassKg, 1e-9)
	assert.InDelta(t, fatMass, got.FatMassKg, 1e-9)
}

func TestComputeJacksonPollock3Male(t *testing.T) {
	got, ok := Compute(maleProfile(), threeSiteMale())
	require.True(t, ok)
	assertResult(t, got, JacksonPollock3, 45, 1.0690, 13.1, 69.6, 10.4)
}

func TestComputeJacksonPollock3Female(t *testing.T) {
	m := Measurements{}.Set(Triceps, 12).Set(Suprailiac, 18).Set(Thigh, 15)
	got, ok := Compute(NewProfile(Female, 25, 60), m)
	require.True(t, ok)
	assertResult(t, got, JacksonPollock3, 45, 1.0560, 18.8, 48.7, 11.3)
}

func TestComputeJacksonPollock7(t *testing.T) {
	m := Measurements{}.
		Set(Chest, 10).Set(Triceps, 12).Set(Subscapular, 15).Set(Midaxillary, 11).
		Set(Suprailiac, 18).Set(Abdomen, 20).Set(Thigh, 15)

	got, ok := Compute(NewProfile(Male, 30, 80), m)
	require.True(t, ok)
	assertResult(t, got, JacksonPollock7, 101, 1.0650, 14.8, 68.2, 11.8)
}

func TestComputeDurninWomersley4IgnoresAge(t *testing.T) {
	m := Measurements{}.Set(Triceps, 12).Set(Subscapular, 15).Set(Suprailiac, 18).Set(Chest, 10)

	young, ok := Compute(NewProfile(Male, 20, 80), m)
	require.True(t, ok)
	old, ok := Compute(NewProfile(Male, 70, 80), m)
	require.True(t, ok)

	assertResult(t, young, DurninWomersley4, 55, 1.0470, 22.8, 61.8, 18.2)
	assert.Equal(t, young, old)
}

func TestComputeFallsThroughIncompleteSevenSite(t *testing.T) {
	// Five of seven sites, but the four-site set is complete.
	m := Measurements{}.Set(Triceps, 12).Set(Subscapular, 15).Set(Suprailiac, 18).Set(Chest, 10).Set(Thigh, 15)

	got, ok := Compute(maleProfile(), m)
	require.True(t, ok)
	assert.Equal(t, DurninWomersley4, got.Protocol)
	assert.InDelta(t, 55, got.SumMM, 1e-9)
}

func TestComputeMissingProfileFields(t *testing.T) {
	m := threeSiteMale()

	tests := []struct {
		name    string
		profile Profile
	}{
		{"no sex", Profile{Age: intPtr(25), WeightKg: floatPtr(80)}},
		{"unknown sex", Profile{Sex: "other", Age: intPtr(25), WeightKg: floatPtr(80)}},
		{"no age", Profile{Sex: Male, WeightKg: floatPtr(80)}},
		{"no weight", Profile{Sex: Male, Age: intPtr(25)}},
		{"zero weight", Profile{Sex: Male, Age: intPtr(25), WeightKg: floatPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compute(tt.profile, m)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestComputeInsufficientSites(t *testing.T) {
	tests := []struct {
		name string
		sex  Sex
		m    Measurements
	}{
		{"empty", Male, Measurements{}},
		{"two of three male", Male, Measurements{}.Set(Chest, 10).Set(Abdomen, 20)},
		{"female sites for male", Male, Measurements{}.Set(Triceps, 12).Set(Suprailiac, 18).Set(Thigh, 15)},
		{"male sites for female", Female, threeSiteMale()},
		{"zero counts as absent", Male, Measurements{}.Set(Chest, 10).Set(Abdomen, 0).Set(Thigh, 15)},
		{"negative counts as absent", Male, Measurements{}.Set(Chest, 10).Set(Abdomen, -4).Set(Thigh, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compute(NewProfile(tt.sex, 25, 80), tt.m)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestBilateralSingleSideMatchesBothSides(t *testing.T) {
	oneSide := Measurements{}.Set(Chest, 10).Set(Abdomen, 20).SetSides(Thigh, 0, 15)
	bothSides := Measurements{}.Set(Chest, 10).Set(Abdomen, 20).SetSides(Thigh, 15, 15)

	a, ok := Compute(maleProfile(), oneSide)
	require.True(t, ok)
	b, ok := Compute(maleProfile(), bothSides)
	require.True(t, ok)

	assert.Equal(t, b, a)
}

func TestBilateralAverage(t *testing.T) {
	m := Measurements{}.SetSides(Thigh, 14, 16)
	v, ok := m.Value(Thigh)
	require.True(t, ok)
	assert.InDelta(t, 15, v, 1e-9)

	_, ok = Measurements{}.SetSides(Thigh, 0, -2).Value(Thigh)
	assert.False(t, ok)
}

func TestUnilateralIgnoresRight(t *testing.T) {
	m := Measurements{Chest: {Right: 12}}
	_, ok := m.Value(Chest)
	assert.False(t, ok)
}

func TestProtocolFor(t *testing.T) {
	p, ok := ProtocolFor(Profile{Sex: Male}, threeSiteMale())
	require.True(t, ok)
	assert.Equal(t, JacksonPollock3, p, "selection ignores missing age and weight")

	_, ok = ProtocolFor(Profile{Sex: Female}, threeSiteMale())
	assert.False(t, ok)

	_, ok = ProtocolFor(Profile{}, threeSiteMale())
	assert.False(t, ok, "no protocol without sex")
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"12", 12},
		{"12.5", 12.5},
		{"12,5", 12.5},
		{" 8 ", 8},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"NaN", 0},
		{"Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseReading(tt.input), 1e-9)
		})
	}
}

func TestParseSex(t *testing.T) {
	for _, s := range []string{"m", "M", "male", "Masculino"} {
		got, ok := ParseSex(s)
		assert.True(t, ok, s)
		assert.Equal(t, Male, got, s)
	}
	for _, s := range []string{"f", "Female", "feminino"} {
		got, ok := ParseSex(s)
		assert.True(t, ok, s)
		assert.Equal(t, Female, got, s)
	}
	_, ok := ParseSex("x")
	assert.False(t, ok)
}
