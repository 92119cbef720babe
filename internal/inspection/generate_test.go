package inspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testOptions() GenerateOptions {
	return GenerateOptions{
		Seed:             42,
		UnitsPerCategory: 10,
		MinInspections:   3,
		MaxInspections:   15,
		Now:              time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateDeterministic(t *testing.T) {
	first := Generate(testOptions())
	second := Generate(testOptions())

	require.Equal(t, first, second)
}

func TestGenerateShape(t *testing.T) {
	data := Generate(testOptions())

	// 5 categories, 10 units each
	require.Len(t, data, 50)

	ids := make(map[string]bool)
	for _, eq := range data {
		require.False(t, ids[eq.ID], "duplicate equipment id %s", eq.ID)
		ids[eq.ID] = true

		require.NotEmpty(t, eq.Name)
		require.NotEmpty(t, eq.Type)
		require.NotEmpty(t, eq.Location)
		require.NotNil(t, eq.Specs)

		require.GreaterOrEqual(t, len(eq.Inspections), 3)
		require.LessOrEqual(t, len(eq.Inspections), 15)
	}

	require.True(t, ids["EQ-PL-001"])
	require.True(t, ids["EQ-PSV-010"])
	require.True(t, ids["EQ-HE-010"])
}

func TestGenerateInspectionsNewestFirst(t *testing.T) {
	data := Generate(testOptions())

	for _, eq := range data {
		for i := 1; i < len(eq.Inspections); i++ {
			require.GreaterOrEqual(t, eq.Inspections[i-1].Date, eq.Inspections[i].Date,
				"inspections for %s out of order", eq.ID)
		}
	}
}

func TestGenerateOlderInspectionsClosed(t *testing.T) {
	data := Generate(testOptions())

	for _, eq := range data {
		for _, ins := range eq.Inspections[1:] {
			require.Equal(t, StatusClosed, ins.Status)
		}
	}
}

func TestGenerateFailureClassification(t *testing.T) {
	data := Generate(testOptions())

	for _, eq := range data {
		for _, ins := range eq.Inspections {
			switch ins.Severity {
			case SeverityCritical:
				require.Equal(t, FailureCritical, ins.FailureType)
			case SeverityHigh:
				require.Equal(t, FailureNormal, ins.FailureType)
			default:
				require.Empty(t, ins.FailureType)
			}
		}
	}
}

func TestGenerateSpecsMatchType(t *testing.T) {
	data := Generate(testOptions())

	for _, eq := range data {
		switch eq.Type {
		case "Pipeline":
			require.IsType(t, PipelineSpec{}, eq.Specs)
		case "PSV":
			require.IsType(t, PSVSpec{}, eq.Specs)
		case "Pressure Vessel":
			require.IsType(t, VesselSpec{}, eq.Specs)
		case "Drum":
			require.IsType(t, DrumSpec{}, eq.Specs)
		case "Heat Exchanger":
			require.IsType(t, ExchangerSpec{}, eq.Specs)
		default:
			t.Fatalf("unexpected equipment type %s", eq.Type)
		}
	}
}

func TestGenerateSeedChangesData(t *testing.T) {
	opts := testOptions()
	first := Generate(opts)

	opts.Seed = 7
	second := Generate(opts)

	require.NotEqual(t, first, second)
}
