package analysis

import (
	"errors"
	"fmt"

	"github.com/vytor/neuroprofile/internal/models"
)

var (
	// ErrInvalidInput marks malformed epochs, spectra or configuration.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUndefinedRatio marks an epoch ratio whose denominator band power is zero.
	ErrUndefinedRatio = errors.New("undefined ratio")
	// ErrDataIntegrity marks a baseline that cannot serve as a denominator or
	// metrics that are not finite.
	ErrDataIntegrity = errors.New("data integrity")
)

// RatioError reports which ratio could not be computed and on which side.
type RatioError struct {
	Index    models.Index
	Baseline bool
}

func (e *RatioError) Error() string {
	if e.Baseline {
		return fmt.Sprintf("baseline %s is zero or undefined", e.Index)
	}
	return fmt.Sprintf("epoch %s is undefined", e.Index)
}

func (e *RatioError) Unwrap() error {
	if e.Baseline {
		return ErrDataIntegrity
	}
	return ErrUndefinedRatio
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
