package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/models"
)

// Document is the session file written by the signal-conditioning stage.
type Document struct {
	Name          string            `json:"name"`
	SamplingRate  float64           `json:"sampling_rate,omitempty"`
	WindowSeconds float64           `json:"window_seconds,omitempty"`
	Channels      []string          `json:"channels"`
	Freqs         []float64         `json:"freqs"`
	Epochs        []models.Epoch    `json:"epochs"`
	Options       models.RunOptions `json:"options"`
}

// Decode reads one JSON session document and turns it into a validated,
// amplitude-normalised recording.
func Decode(r io.Reader) (models.Recording, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return models.Recording{}, fmt.Errorf("%w: decode session document: %w", analysis.ErrInvalidInput, err)
	}
	return doc.Recording()
}

// ReadFile decodes the session document at path.
func ReadFile(path string) (models.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Recording{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Recording validates the document shape and converts microvolt input to volts
// across the whole session.
func (d Document) Recording() (models.Recording, error) {
	if err := d.validate(); err != nil {
		return models.Recording{}, err
	}

	epochs, rescaled := analysis.NormalizeEpochs(d.Epochs)
	name := d.Name
	if name == "" {
		name = "session"
	}
	return models.Recording{
		Name:          name,
		SamplingRate:  d.SamplingRate,
		WindowSeconds: d.WindowSeconds,
		Channels:      d.Channels,
		Freqs:         d.Freqs,
		Epochs:        epochs,
		Options:       d.Options,
		Rescaled:      rescaled,
	}, nil
}

func (d Document) validate() error {
	if len(d.Epochs) == 0 {
		return invalidf("document has no epochs")
	}
	if d.SamplingRate < 0 || d.WindowSeconds < 0 {
		return invalidf("sampling_rate and window_seconds cannot be negative")
	}
	if len(d.Channels) == 0 {
		return invalidf("channels must list at least one channel")
	}
	seen := make(map[string]bool, len(d.Channels))
	for _, ch := range d.Channels {
		if ch == "" {
			return invalidf("channel names cannot be empty")
		}
		if seen[ch] {
			return invalidf("duplicate channel %q", ch)
		}
		seen[ch] = true
	}
	if len(d.Freqs) == 0 {
		return invalidf("freqs must list at least one frequency bin")
	}

	indices := make(map[int]bool, len(d.Epochs))
	for i, e := range d.Epochs {
		if indices[e.Index] {
			return invalidf("duplicate epoch index %d", e.Index)
		}
		indices[e.Index] = true

		if len(e.Samples) != len(d.Channels) {
			return invalidf("epoch %d (position %d) has %d sample rows for %d channels", e.Index, i, len(e.Samples), len(d.Channels))
		}
		width := len(e.Samples[0])
		if width == 0 {
			return invalidf("epoch %d has empty sample rows", e.Index)
		}
		for ch, row := range e.Samples {
			if len(row) != width {
				return invalidf("epoch %d channel %s has %d samples, expected %d", e.Index, d.Channels[ch], len(row), width)
			}
		}
		if len(e.PSD) == 0 {
			return invalidf("epoch %d has no psd rows", e.Index)
		}
		for ch, row := range e.PSD {
			if len(row) != len(d.Freqs) {
				return invalidf("epoch %d psd row %d has %d values for %d frequency bins", e.Index, ch, len(row), len(d.Freqs))
			}
		}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", analysis.ErrInvalidInput, fmt.Sprintf(format, args...))
}
