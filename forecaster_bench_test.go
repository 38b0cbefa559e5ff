package playback

import (
	"os"
	"testing"
	"time"

	"github.com/aouyang1/go-playback/dataset"
	"github.com/aouyang1/go-playback/fill"
	"github.com/aouyang1/go-playback/horizon"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
)

var benchPredictRes *dataset.Table

func setupBenchPanel(b *testing.B) (*dataset.Table, *Options) {
	n := 7 * 24 * 60
	times := dataset.GenerateT(n, time.Minute, func() time.Time {
		return time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	})

	groups := []string{"a", "b", "c", "d"}
	series := make(map[string]dataset.Series, len(groups))
	for i, grp := range groups {
		series[grp] = dataset.GenerateWaveY(times, 4.3, 86400.0, 1.0, float64(i*3600)).
			Add(dataset.GenerateConstY(n, float64(i)))
	}

	known, err := dataset.GeneratePanel("series", "y", times, groups, series)
	if err != nil {
		b.Fatal(err)
	}
	opt := &Options{FillMethod: fill.MethodForward, Limit: 60}
	return known, opt
}

func BenchmarkFitToModel(b *testing.B) {
	known, opt := setupBenchPanel(b)

	var f *Forecaster
	var err error

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err = New(known, opt)
		if err != nil {
			panic(err)
		}
		if err := f.Fit(known); err != nil {
			panic(err)
		}
	}

	m, err := f.Model()
	if err != nil {
		panic(err)
	}

	bytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile("benchmark_model.json", bytes, 0o644); err != nil {
		panic(err)
	}
}

func BenchmarkPredictFromModel(b *testing.B) {
	bytes, err := os.ReadFile("benchmark_model.json")
	if err != nil {
		panic(err)
	}

	var model Model
	if err := json.Unmarshal(bytes, &model); err != nil {
		panic(err)
	}
	f, err := NewFromModel(model)
	if err != nil {
		panic(err)
	}

	h, err := horizon.NewRange(24 * 60)
	if err != nil {
		panic(err)
	}

	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := f.Predict(h, nil)
		if err != nil {
			panic(err)
		}
		benchPredictRes = res
	}
}
