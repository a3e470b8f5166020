package backtest

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/quantor-lab/quantor/internal/indicator"
	"github.com/quantor-lab/quantor/internal/strategy"
	"github.com/quantor-lab/quantor/internal/types"
	"github.com/quantor-lab/quantor/pkg/errors"
)

// CostType selects how a transaction cost scales with the fill.
type CostType string

const (
	// CostTypePercentage charges value * notional.
	CostTypePercentage CostType = "percentage"
	// CostTypeFixed charges value per order regardless of size.
	CostTypeFixed CostType = "fixed"
)

// CostModel describes a single transaction cost component.
type CostModel struct {
	Type  CostType `yaml:"type" json:"type" validate:"required,oneof=percentage fixed" jsonschema:"title=Cost Type,description=How the cost scales with the fill,enum=percentage,enum=fixed"`
	Value float64  `yaml:"value" json:"value" validate:"gte=0" jsonschema:"title=Cost Value,description=Rate for percentage costs or amount in quote currency for fixed costs,minimum=0"`
}

// StrategyConfig selects and parameterizes the strategy to run.
type StrategyConfig struct {
	Kind        string         `yaml:"kind" json:"kind" validate:"required,oneof=ma_crossover" jsonschema:"title=Strategy Kind,enum=ma_crossover"`
	ShortPeriod int            `yaml:"short_period" json:"short_period" validate:"gt=0" jsonschema:"title=Short Period,minimum=1"`
	LongPeriod  int            `yaml:"long_period" json:"long_period" validate:"gt=0" jsonschema:"title=Long Period,minimum=2"`
	MAType      indicator.Kind `yaml:"ma_type" json:"ma_type" validate:"required,oneof=sma ema" jsonschema:"title=Moving Average Type,enum=sma,enum=ema"`
}

// NewStrategy builds the configured strategy instance.
func (c StrategyConfig) NewStrategy() (strategy.Strategy, error) {
	switch c.Kind {
	case "ma_crossover":
		return strategy.NewMACrossover(c.ShortPeriod, c.LongPeriod, c.MAType)
	default:
		return nil, errors.Newf(errors.ErrCodeStrategyConfig, "unknown strategy kind: %s", c.Kind)
	}
}

// Config is the full parameter set of a backtest run. A Config is immutable
// once handed to an engine; running the same Config over the same series
// always produces the same result.
type Config struct {
	Symbol         string  `yaml:"symbol" json:"symbol" validate:"required" jsonschema:"title=Symbol,description=Instrument identifier the series belongs to"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting cash in quote currency,exclusiveMinimum=0"`

	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional inclusive start of the simulated period"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional inclusive end of the simulated period"`

	Strategy   StrategyConfig `yaml:"strategy" json:"strategy" validate:"required" jsonschema:"title=Strategy"`
	Commission CostModel      `yaml:"commission" json:"commission" validate:"required" jsonschema:"title=Commission"`
	Slippage   CostModel      `yaml:"slippage" json:"slippage" validate:"required" jsonschema:"title=Slippage"`

	// MinBars is the minimum number of bars the input series must contain.
	MinBars int `yaml:"min_bars" json:"min_bars" validate:"gte=2" jsonschema:"title=Minimum Bars,minimum=2"`
	// DecimalPrecision is the number of decimal places order quantities are
	// floored to. 0 means whole units only.
	DecimalPrecision int `yaml:"decimal_precision" json:"decimal_precision" validate:"gte=0" jsonschema:"title=Decimal Precision,minimum=0"`
	// AnnualizationFactor scales the per-bar Sharpe ratio to an annual
	// figure. 252 treats each bar as one trading day.
	AnnualizationFactor float64 `yaml:"annualization_factor" json:"annualization_factor" validate:"gt=0" jsonschema:"title=Annualization Factor,exclusiveMinimum=0"`
}

// UnmarshalYAML implements custom unmarshaling for Config so that optional
// times can be omitted from the document.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawConfig struct {
		Symbol              string         `yaml:"symbol"`
		InitialCapital      float64        `yaml:"initial_capital"`
		StartTime           *time.Time     `yaml:"start_time"`
		EndTime             *time.Time     `yaml:"end_time"`
		Strategy            StrategyConfig `yaml:"strategy"`
		Commission          CostModel      `yaml:"commission"`
		Slippage            CostModel      `yaml:"slippage"`
		MinBars             int            `yaml:"min_bars"`
		DecimalPrecision    int            `yaml:"decimal_precision"`
		AnnualizationFactor float64        `yaml:"annualization_factor"`
	}

	raw := rawConfig{
		MinBars:             types.MinSeriesLength,
		AnnualizationFactor: DefaultAnnualizationFactor,
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	c.Symbol = raw.Symbol
	c.InitialCapital = raw.InitialCapital
	c.Strategy = raw.Strategy
	c.Commission = raw.Commission
	c.Slippage = raw.Slippage
	c.MinBars = raw.MinBars
	c.DecimalPrecision = raw.DecimalPrecision
	c.AnnualizationFactor = raw.AnnualizationFactor
	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	} else {
		c.StartTime = optional.None[time.Time]()
	}
	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	} else {
		c.EndTime = optional.None[time.Time]()
	}

	return nil
}

// DefaultAnnualizationFactor treats each bar as one trading day.
const DefaultAnnualizationFactor = 252

// DefaultConfig returns a Config with cost-free execution and daily
// annualization. Symbol and capital must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		StartTime: optional.None[time.Time](),
		EndTime:   optional.None[time.Time](),
		Strategy: StrategyConfig{
			Kind:        "ma_crossover",
			ShortPeriod: 10,
			LongPeriod:  30,
			MAType:      indicator.KindSMA,
		},
		Commission:          CostModel{Type: CostTypePercentage, Value: 0},
		Slippage:            CostModel{Type: CostTypePercentage, Value: 0},
		MinBars:             types.MinSeriesLength,
		DecimalPrecision:    0,
		AnnualizationFactor: DefaultAnnualizationFactor,
	}
}

// LoadConfig parses a YAML document into a Config and validates it.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to parse config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the Config against its constraints.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid config", err)
	}
	if c.Strategy.LongPeriod <= c.Strategy.ShortPeriod {
		return errors.Newf(errors.ErrCodeInvalidConfig, "long period %d must exceed short period %d", c.Strategy.LongPeriod, c.Strategy.ShortPeriod)
	}
	if c.StartTime.IsSome() && c.EndTime.IsSome() {
		start := c.StartTime.Unwrap()
		end := c.EndTime.Unwrap()
		if start.After(end) {
			return errors.Newf(errors.ErrCodeInvalidConfig, "start time %s is after end time %s", start, end)
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for a backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates an indented JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
