package analysis

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
)

// Result is everything one run produces. Summary is the externally visible
// record; the rest is kept for persistence and reporting.
type Result struct {
	Summary     models.SessionSummary
	Baseline    Baseline
	Diagnostics []models.EpochDiagnostic
	Epochs      []models.ClassificationResult
	Config      PipelineConfig
}

// Processor runs the two-pass pipeline over a recording. It only holds
// read-only configuration, so one Processor may serve many sessions at once.
type Processor struct {
	cfg PipelineConfig
}

func NewProcessor(cfg PipelineConfig) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg}, nil
}

func (p *Processor) Config() PipelineConfig {
	return p.cfg
}

type epochFeatures struct {
	diag    models.EpochDiagnostic
	metrics models.BandPowerMetrics
}

// Run quality-checks and measures every epoch, builds the baseline once all of
// them are done, and only then classifies. Per-epoch work inside a pass runs on
// up to cfg.Workers goroutines; results are stored by position so the output
// does not depend on scheduling.
func (p *Processor) Run(ctx context.Context, rec models.Recording) (*Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx).WithPrefix("analysis")

	cfg, err := p.cfg.WithOverrides(rec.Options)
	if err != nil {
		return nil, err
	}
	if rec.WindowSeconds > 0 {
		cfg.WindowSeconds = rec.WindowSeconds
	}
	if rec.SamplingRate > 0 {
		cfg.SamplingRate = rec.SamplingRate
	}

	epochs, err := prepareEpochs(rec)
	if err != nil {
		return nil, err
	}

	features, err := p.measure(ctx, cfg, epochs, rec.Channels)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	noisy := make(map[int]bool, len(epochs))
	diags := make([]models.EpochDiagnostic, len(epochs))
	for i, f := range features {
		diags[i] = f.diag
		if f.diag.Noisy {
			noisy[f.diag.Index] = true
		}
	}

	baseline, err := EstimateBaseline(epochs, noisy, cfg.Bands)
	if err != nil {
		return nil, err
	}
	if baseline.QualityWarning {
		log.Warn("all %d epochs flagged noisy, baseline built from the full session", len(epochs))
	}
	if err := CheckBaseline(baseline.Metrics); err != nil {
		return nil, err
	}

	results, err := p.classify(ctx, cfg, features, baseline.Metrics)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(results, cfg.WindowSeconds, baseline.QualityWarning)
	log.Info("classified %d epochs (%d noisy) in %v", len(epochs), len(noisy), time.Since(start))

	return &Result{
		Summary:     summary,
		Baseline:    baseline,
		Diagnostics: diags,
		Epochs:      results,
		Config:      cfg,
	}, nil
}

func (p *Processor) measure(ctx context.Context, cfg PipelineConfig, epochs []models.Epoch, channels []string) ([]epochFeatures, error) {
	log := logger.FromContext(ctx).WithPrefix("quality")
	out := make([]epochFeatures, len(epochs))

	err := fanOut(ctx, len(epochs), cfg.Workers, func(i int) error {
		e := epochs[i]
		diag, err := AssessEpoch(e, channels, cfg.Quality)
		if err != nil {
			return err
		}
		switch {
		case diag.Noisy:
			log.Info("rejected epoch %d: %d/%d channels noisy, bad=%v", e.Index, diag.BadCount(), diag.TotalChannels, diag.BadChannels)
		case diag.BadCount() > 0:
			log.Debug("epoch %d kept: only %d channel(s) noisy", e.Index, diag.BadCount())
		}

		spectrum, err := MeanSpectrum(e)
		if err != nil {
			return err
		}
		metrics, err := ExtractBandPowers(e.Freqs, spectrum, cfg.Bands)
		if err != nil {
			return err
		}
		out[i] = epochFeatures{diag: diag, metrics: metrics}
		return nil
	})
	return out, err
}

func (p *Processor) classify(ctx context.Context, cfg PipelineConfig, features []epochFeatures, baseline models.BandPowerMetrics) ([]models.ClassificationResult, error) {
	log := logger.FromContext(ctx).WithPrefix("analysis")
	c := NewClassifier(cfg)
	out := make([]models.ClassificationResult, len(features))

	err := fanOut(ctx, len(features), cfg.Workers, func(i int) error {
		f := features[i]
		res, err := c.Classify(f.metrics, baseline, f.diag.Noisy)
		if errors.Is(err, ErrUndefinedRatio) {
			log.Warn("epoch %d labelled %s: %v", f.diag.Index, res.Label, err)
			err = nil
		}
		if err != nil {
			return err
		}
		out[i] = res
		return nil
	})
	return out, err
}

// fanOut runs fn for 0..n-1 on a bounded group. Every index runs even after a
// failure; the error reported is the one with the lowest index.
func fanOut(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			errs[i] = fn(i)
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// prepareEpochs sorts epochs by index, rejects duplicates and attaches the
// recording frequency grid to epochs that do not carry their own.
func prepareEpochs(rec models.Recording) ([]models.Epoch, error) {
	if len(rec.Epochs) == 0 {
		return nil, invalidf("recording has no epochs")
	}
	epochs := slices.Clone(rec.Epochs)
	slices.SortStableFunc(epochs, func(a, b models.Epoch) int { return a.Index - b.Index })

	width := len(epochs[0].Samples)
	if len(rec.Channels) > 0 {
		width = len(rec.Channels)
	}
	for i := range epochs {
		if i > 0 && epochs[i].Index == epochs[i-1].Index {
			return nil, invalidf("duplicate epoch index %d", epochs[i].Index)
		}
		if epochs[i].Index < 0 {
			return nil, invalidf("negative epoch index %d", epochs[i].Index)
		}
		if len(epochs[i].Samples) != width {
			return nil, invalidf("epoch %d has %d channels, expected %d", epochs[i].Index, len(epochs[i].Samples), width)
		}
		if len(epochs[i].Freqs) == 0 {
			epochs[i].Freqs = rec.Freqs
		}
	}
	return epochs, nil
}
