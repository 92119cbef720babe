package inspection

// SpecSheet is the per-type design data attached to an equipment record.
// Each equipment type carries its own variant.
type SpecSheet interface {
	SpecKind() string
}

type PipelineSpec struct {
	DiameterInches    float64 `json:"diameterInches"`
	Material          string  `json:"material"`
	DesignPressurePSI int     `json:"designPressurePsi"`
	LengthMeters      int     `json:"lengthMeters"`
}

func (PipelineSpec) SpecKind() string { return "Pipeline" }

type PSVSpec struct {
	SetPressurePSI int    `json:"setPressurePsi"`
	OrificeLetter  string `json:"orificeLetter"`
	InletSizeInch  float64 `json:"inletSizeInch"`
}

func (PSVSpec) SpecKind() string { return "PSV" }

type VesselSpec struct {
	DesignPressurePSI int     `json:"designPressurePsi"`
	VolumeM3          float64 `json:"volumeM3"`
	ShellMaterial     string  `json:"shellMaterial"`
}

func (VesselSpec) SpecKind() string { return "Pressure Vessel" }

type DrumSpec struct {
	DesignPressurePSI int     `json:"designPressurePsi"`
	VolumeM3          float64 `json:"volumeM3"`
	Orientation       string  `json:"orientation"`
}

func (DrumSpec) SpecKind() string { return "Drum" }

type ExchangerSpec struct {
	TubeCount     int    `json:"tubeCount"`
	ShellMaterial string `json:"shellMaterial"`
	DutyMW        float64 `json:"dutyMw"`
}

func (ExchangerSpec) SpecKind() string { return "Heat Exchanger" }
