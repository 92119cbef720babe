package inspection

import (
	"fmt"
	"math/rand"
	"time"
)

var locations = []string{
	"Unit 1 - Crude Distillation",
	"Unit 2 - Vacuum Distillation",
	"Unit 3 - Catalytic Cracker",
	"Unit 4 - Water Treatment",
	"Tank Farm A - Crude Storage",
	"Tank Farm B - Product Storage",
	"Interconnecting Pipeway",
	"Flare System",
	"Cooling Water Tower",
	"Boiler House",
}

var inspectors = []string{
	"J. Smith", "A. Doe", "R. Roe", "S. Connor", "B. Wayne",
	"C. Kent", "D. Prince", "L. Lane", "P. Parker", "T. Stark",
}

type category struct {
	Type   string
	Code   string
	Prefix string
}

var categories = []category{
	{Type: "Pipeline", Code: "PL", Prefix: "Pipeline"},
	{Type: "PSV", Code: "PSV", Prefix: "PSV"},
	{Type: "Pressure Vessel", Code: "PV", Prefix: "Vessel"},
	{Type: "Drum", Code: "DR", Prefix: "Drum"},
	{Type: "Heat Exchanger", Code: "HE", Prefix: "Exchanger"},
}

// scenario models one equipment state: accepted, repaired, or pending repair.
type scenario struct {
	Label        string
	StatusPool   []Status
	SeverityPool []Severity
	FindingsPool []string
	RecPool      []string
}

var scenarios = []scenario{
	{
		Label:        "Accepted",
		StatusPool:   []Status{StatusClosed},
		SeverityPool: []Severity{SeverityLow},
		FindingsPool: []string{
			"Vibration levels within ISO acceptable limits.",
			"No visible leaks observed during hydro test.",
			"External coating intact. No corrosion observed.",
			"Ultrasonic thickness readings above minimal nominal.",
			"Visual inspection passed. Housekeeping good.",
			"Pipe supports are in good condition and fully engaged.",
			"PSV pop test passed at set pressure.",
			"No signs of external blistering or lamination.",
			"Flange connections tight, no evidence of leakage.",
			"Insulation cladding is intact and weather-proof.",
			"Tube bundle inspection clean, no significant fouling.",
			"Pass partition plates intact and secure.",
			"Channel head internal lining in good condition.",
			"Sacrificial anodes show normal consumption rate.",
		},
		RecPool: []string{
			"Continue routine monitoring schedule.",
			"No maintenance action required.",
			"Next inspection due in 12 months.",
			"Maintain current operating parameters.",
			"Record thickness readings in IDMS.",
			"Schedule next cleaning cycle.",
		},
	},
	{
		Label:        "Repaired",
		StatusPool:   []Status{StatusClosed},
		SeverityPool: []Severity{SeverityMedium, SeverityHigh},
		FindingsPool: []string{
			"Seal leak previously detected has been repaired.",
			"Patch plate welded over corroded shell area. NDT passed.",
			"Replaced damaged pressure gauge.",
			"Tightened loose coupling bolts. Alignment verified.",
			"Replaced corroded valve stem.",
			"PSV spring washer replaced and re-certified.",
			"Pipe section replaced due to localized erosion.",
			"Repainted areas with coating failure.",
			"Replaced missing bolts on flange connection.",
			"Welded support bracket that was detached.",
			"Plugged 5 leaking tubes in the bundle.",
			"Replaced channel head gasket.",
			"Chemical cleaning performed to remove scale.",
			"Re-rolled tube-to-tubesheet joints.",
			"Installed impingement plate on inlet nozzle.",
		},
		RecPool: []string{
			"Monitor repair for 48 hours.",
			"Repair completed successfully. Return to service.",
			"Log repair in maintenance history.",
			"Verify integrity during next shutdown.",
			"Perform IR scan within 24 hours of startup.",
		},
	},
	{
		Label:        "Pending for Repair",
		StatusPool:   []Status{StatusOpen, StatusInProgress},
		SeverityPool: []Severity{SeverityMedium, SeverityHigh, SeverityCritical},
		FindingsPool: []string{
			"Active product leak observed.",
			"High vibration (>0.5 in/s) detected during operation.",
			"Wall thickness below retirement limit (Tmin).",
			"Safety relief valve (PSV) failed pop test (lifted early).",
			"Severe pitting on shell (>40% wall loss).",
			"Structural cracks observed in support legs.",
			"Insulation damaged, causing significant heat loss.",
			"Severe external corrosion under insulation (CUI).",
			"Flange face damage requiring machining.",
			"Bellows expansion joint showing signs of fatigue cracking.",
			"Tube leak detected during pressure test.",
			"Severe fouling on shell side reducing heat transfer efficiency.",
			"Channel head showing signs of erosion-corrosion.",
			"Floating head backing ring cracked.",
			"Tubesheet ligament cracking observed.",
		},
		RecPool: []string{
			"Plan for immediate replacement.",
			"Schedule outage for repair.",
			"Isolate equipment and perform detailed NDT.",
			"Reduce operating pressure by 20% until repair.",
			"Emergency work order created.",
			"Barricade area to prevent access.",
			"Order replacement tube bundle.",
			"Blind off nozzle until repair can be effected.",
		},
	},
}

// GenerateOptions controls dataset shape. The zero value is not usable;
// use DefaultGenerateOptions as a base.
type GenerateOptions struct {
	Seed             int64
	UnitsPerCategory int
	MinInspections   int
	MaxInspections   int
	Now              time.Time
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Seed:             42,
		UnitsPerCategory: 50,
		MinInspections:   3,
		MaxInspections:   15,
		Now:              time.Now(),
	}
}

// Generate builds the synthetic equipment dataset. The same options always
// produce the same records.
func Generate(opts GenerateOptions) []*Equipment {
	if opts.UnitsPerCategory <= 0 {
		opts.UnitsPerCategory = 50
	}
	if opts.MinInspections <= 0 {
		opts.MinInspections = 3
	}
	if opts.MaxInspections < opts.MinInspections {
		opts.MaxInspections = opts.MinInspections
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	data := make([]*Equipment, 0, len(categories)*opts.UnitsPerCategory)

	for _, cat := range categories {
		for i := 1; i <= opts.UnitsPerCategory; i++ {
			// Rotate scenarios for an even distribution of equipment states.
			current := scenarios[(i-1)%len(scenarios)]

			numStr := fmt.Sprintf("%03d", i)
			equipmentID := fmt.Sprintf("EQ-%s-%s", cat.Code, numStr)

			span := opts.MaxInspections - opts.MinInspections + 1
			numInspections := rng.Intn(span) + opts.MinInspections

			inspections := make([]Inspection, 0, numInspections)
			for j := 0; j < numInspections; j++ {
				// The latest inspection reflects the equipment's current
				// state; older ones are drawn from the closed scenarios.
				sc := current
				if j != 0 {
					sc = scenarios[rng.Intn(2)]
				}

				status := StatusClosed
				if j == 0 {
					status = sc.StatusPool[rng.Intn(len(sc.StatusPool))]
				}

				date := opts.Now.AddDate(0, -j*4, -rng.Intn(30))
				severity := sc.SeverityPool[rng.Intn(len(sc.SeverityPool))]

				inspections = append(inspections, Inspection{
					ID:              fmt.Sprintf("INS-%s-%s-%02d", equipmentID, date.Format("20060102"), j),
					Date:            date.Format("2006-01-02"),
					Inspector:       inspectors[rng.Intn(len(inspectors))],
					Findings:        sc.FindingsPool[rng.Intn(len(sc.FindingsPool))],
					Recommendations: sc.RecPool[rng.Intn(len(sc.RecPool))],
					Severity:        severity,
					ReportURL:       fmt.Sprintf("https://drive.google.com/open?id=report-%s-%d", equipmentID, j),
					Status:          status,
					FailureType:     classifyFailure(severity),
				})
			}

			data = append(data, &Equipment{
				ID:          equipmentID,
				Name:        fmt.Sprintf("%s-%s", cat.Prefix, numStr),
				Type:        cat.Type,
				Location:    locations[rng.Intn(len(locations))],
				Inspections: inspections,
				Specs:       generateSpecs(cat.Type, rng),
			})
		}
	}

	return data
}

func classifyFailure(severity Severity) FailureType {
	switch severity {
	case SeverityCritical:
		return FailureCritical
	case SeverityHigh:
		return FailureNormal
	default:
		return ""
	}
}

func generateSpecs(equipmentType string, rng *rand.Rand) SpecSheet {
	switch equipmentType {
	case "Pipeline":
		diameters := []float64{2, 4, 6, 8, 12, 16, 24}
		return PipelineSpec{
			DiameterInches:    diameters[rng.Intn(len(diameters))],
			Material:          pick(rng, "Carbon Steel", "Stainless 316L", "Duplex SS"),
			DesignPressurePSI: 150 + rng.Intn(10)*50,
			LengthMeters:      20 + rng.Intn(480),
		}
	case "PSV":
		return PSVSpec{
			SetPressurePSI: 100 + rng.Intn(20)*25,
			OrificeLetter:  pick(rng, "D", "E", "F", "G", "H", "J"),
			InletSizeInch:  []float64{1, 1.5, 2, 3, 4}[rng.Intn(5)],
		}
	case "Pressure Vessel":
		return VesselSpec{
			DesignPressurePSI: 150 + rng.Intn(30)*25,
			VolumeM3:          float64(5+rng.Intn(95)) / 2,
			ShellMaterial:     pick(rng, "SA-516 Gr 70", "SA-240 304", "SA-387 Gr 11"),
		}
	case "Drum":
		return DrumSpec{
			DesignPressurePSI: 75 + rng.Intn(20)*25,
			VolumeM3:          float64(10 + rng.Intn(40)),
			Orientation:       pick(rng, "Horizontal", "Vertical"),
		}
	case "Heat Exchanger":
		return ExchangerSpec{
			TubeCount:     200 + rng.Intn(18)*50,
			ShellMaterial: pick(rng, "Carbon Steel", "SA-516 Gr 70", "Titanium"),
			DutyMW:        float64(1+rng.Intn(40)) / 4,
		}
	default:
		return nil
	}
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
