package playback

import (
	"fmt"
	"time"

	"github.com/aouyang1/go-playback/dataset"
)

// Model is a serializeable representation of a fit Forecaster composing the
// fill options, the known value table, and the recorded cutoff. This can be
// used to initialize a new Forecaster for immediate predictions skipping the
// fit step.
type Model struct {
	Options     *Options       `json:"options"`
	KnownValues *dataset.Table `json:"known_values"`
	Cutoff      time.Time      `json:"cutoff"`
	Interval    time.Duration  `json:"interval"`
}

// Model returns the serializeable model of a fit forecaster.
func (f *Forecaster) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecaster
	}
	if !f.trained {
		return Model{}, ErrUntrainedForecaster
	}
	m := Model{
		Options:     f.opt,
		KnownValues: f.known.Copy(),
		Cutoff:      f.cutoff,
		Interval:    f.interval,
	}
	return m, nil
}

// NewFromModel creates a new instance of a Forecaster from a pre-existing
// model. This should be generated from a previous forecaster call to
// Model(). The result is ready for predictions without another fit.
func NewFromModel(model Model) (*Forecaster, error) {
	f, err := New(model.KnownValues, model.Options)
	if err != nil {
		return nil, fmt.Errorf("unable to load known values from model, %w", err)
	}
	if err := f.FitCutoff(model.Cutoff, model.Interval); err != nil {
		return nil, fmt.Errorf("unable to restore cutoff from model, %w", err)
	}
	return f, nil
}
