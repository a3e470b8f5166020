package writer

import (
	"time"

	"github.com/quantor-lab/quantor/internal/types"
)

// Record is one downloaded bar together with the symbol it belongs to.
type Record struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bar converts the record to an engine bar.
func (r Record) Bar() types.Bar {
	return types.Bar{
		Time:   r.Time,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}

// BarWriter defines the interface for writing downloaded bars to a
// destination.
type BarWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single bar.
	Write(record Record) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
