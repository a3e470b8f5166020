package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultGeneratorConfig()
	config.Count = 100

	series := gen.Generate(config)

	if len(series) != 100 {
		t.Errorf("expected 100 bars, got %d", len(series))
	}

	if err := series.Validate(2); err != nil {
		t.Errorf("generated series is invalid: %v", err)
	}

	for i, bar := range series {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, bar.Open, bar.High, bar.Low, bar.Close)
		}
		if bar.High < bar.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, bar.High, bar.Low)
		}
	}

	for i := 1; i < len(series); i++ {
		actualInterval := series[i].Time.Sub(series[i-1].Time)
		if actualInterval != config.Interval {
			t.Errorf("unexpected interval at index %d: expected %v, got %v",
				i, config.Interval, actualInterval)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultGeneratorConfig()
	config.Count = 50
	config.StartTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first := NewDataGenerator(7).Generate(config)
	second := NewDataGenerator(7).Generate(config)

	if len(first) != len(second) {
		t.Fatalf("series lengths differ: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("bars differ at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDataGenerator_Trending(t *testing.T) {
	gen := NewDataGenerator(42)

	series := gen.GenerateTrending(252, 0.5)

	if len(series) != 252 {
		t.Fatalf("expected 252 bars, got %d", len(series))
	}

	if err := series.Validate(2); err != nil {
		t.Errorf("trending series is invalid: %v", err)
	}
}
