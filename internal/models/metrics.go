package models

// Index identifies one of the derived band ratios.
type Index int

const (
	IndexDrowsiness Index = iota
	IndexArousal
	IndexFocus
	IndexMindWandering
)

func (i Index) String() string {
	switch i {
	case IndexDrowsiness:
		return "drowsiness_index"
	case IndexArousal:
		return "arousal_index"
	case IndexFocus:
		return "focus_index"
	case IndexMindWandering:
		return "mind_wandering_index"
	default:
		return "unknown_index"
	}
}

// IndexSet is a bit set of indices.
type IndexSet uint8

func (s IndexSet) Has(i Index) bool { return s&(1<<uint(i)) != 0 }

func (s IndexSet) With(i Index) IndexSet { return s | 1<<uint(i) }

func (s IndexSet) Empty() bool { return s == 0 }

// BandPowerMetrics holds the band powers of one spectrum and the ratios derived
// from them. A ratio whose denominator band is zero is listed in Undefined and
// its field is left at zero.
type BandPowerMetrics struct {
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`

	FocusIndex         float64 `json:"focus_index"`
	MindWanderingIndex float64 `json:"mind_wandering_index"`
	ArousalIndex       float64 `json:"arousal_index"`
	DrowsinessIndex    float64 `json:"drowsiness_index"`

	TotalPower float64 `json:"total_power"`

	Undefined IndexSet `json:"-"`
}

// Index returns the ratio value and whether it is defined.
func (m BandPowerMetrics) Index(i Index) (float64, bool) {
	if m.Undefined.Has(i) {
		return 0, false
	}
	switch i {
	case IndexDrowsiness:
		return m.DrowsinessIndex, true
	case IndexArousal:
		return m.ArousalIndex, true
	case IndexFocus:
		return m.FocusIndex, true
	case IndexMindWandering:
		return m.MindWanderingIndex, true
	default:
		return 0, false
	}
}
