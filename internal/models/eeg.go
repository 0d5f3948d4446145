package models

type Band string

const (
	BandDelta Band = "Delta"
	BandTheta Band = "Theta"
	BandAlpha Band = "Alpha"
	BandBeta  Band = "Beta"
	BandGamma Band = "Gamma"
)

// Bands lists every band in table order.
var Bands = []Band{BandDelta, BandTheta, BandAlpha, BandBeta, BandGamma}

// BandRange is an inclusive frequency range in Hz.
type BandRange struct {
	Band Band    `json:"band"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type BandTable []BandRange

// DefaultBands returns a fresh copy of the standard band table.
func DefaultBands() BandTable {
	return BandTable{
		{Band: BandDelta, Min: 0.5, Max: 4},
		{Band: BandTheta, Min: 4, Max: 8},
		{Band: BandAlpha, Min: 8, Max: 13},
		{Band: BandBeta, Min: 13, Max: 30},
		{Band: BandGamma, Min: 30, Max: 45},
	}
}

func (t BandTable) Range(b Band) (BandRange, bool) {
	for _, r := range t {
		if r.Band == b {
			return r, true
		}
	}
	return BandRange{}, false
}

// Epoch is one fixed-length window handed over by the signal-conditioning stage.
// Samples is channels x samples in volts; PSD is channels x frequency bins and
// shares Freqs with every other epoch of the recording.
type Epoch struct {
	Index   int         `json:"index"`
	Samples [][]float64 `json:"samples"`
	Freqs   []float64   `json:"-"`
	PSD     [][]float64 `json:"psd"`
}

// Recording is a decoded upload: every epoch of one session plus per-run options.
type Recording struct {
	Name          string
	SamplingRate  float64
	WindowSeconds float64
	Channels      []string
	Freqs         []float64
	Epochs        []Epoch
	Options       RunOptions
	Rescaled      bool
}

// RunOptions override server defaults for a single analysis run.
type RunOptions struct {
	ChannelNoiseFraction    *float64            `json:"channel_noise_fraction,omitempty"`
	ClassificationThreshold *float64            `json:"classification_threshold,omitempty"`
	ArtifactPowerCeiling    *float64            `json:"artifact_power_ceiling,omitempty"`
	Bands                   map[Band][2]float64 `json:"bands,omitempty"`
}
