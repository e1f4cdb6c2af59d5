package model

import "errors"

// Defaults for the battery arbitrage model. 0.87 round-trip efficiency is
// the industry standard for lithium-ion BESS; $20/MWh cycling cost covers
// degradation plus variable O&M per MWh dispatched.
const (
	DefaultEfficiency     = 0.87
	DefaultChargeHours    = 4
	DefaultDischargeHours = 4
	DefaultCyclingCost    = 20.00
	DefaultWindowHours    = 24
)

// BatteryConfig defines the economic parameters of the arbitrage model.
// Units:
// - Efficiency: round-trip AC-DC-AC fraction in (0, 1]
// - CyclingCost: $/MWh dispatched
// - ChargeHours/DischargeHours: hour counts per window
type BatteryConfig struct {
	Efficiency     float64 `yaml:"efficiency" json:"efficiency"`
	ChargeHours    int     `yaml:"charge_hours" json:"charge_hours"`
	DischargeHours int     `yaml:"discharge_hours" json:"discharge_hours"`
	CyclingCost    float64 `yaml:"cycling_cost" json:"cycling_cost"`
	WindowHours    int     `yaml:"window_hours" json:"window_hours"`
}

// DefaultBatteryConfig returns the standard grid-scale Li-ion parameter set.
func DefaultBatteryConfig() BatteryConfig {
	return BatteryConfig{
		Efficiency:     DefaultEfficiency,
		ChargeHours:    DefaultChargeHours,
		DischargeHours: DefaultDischargeHours,
		CyclingCost:    DefaultCyclingCost,
		WindowHours:    DefaultWindowHours,
	}
}

// NewBatteryConfig validates and returns a battery configuration.
// A zero WindowHours defaults to 24.
func NewBatteryConfig(cfg BatteryConfig) (BatteryConfig, error) {
	if cfg.WindowHours == 0 {
		cfg.WindowHours = DefaultWindowHours
	}
	if err := cfg.Validate(); err != nil {
		return BatteryConfig{}, err
	}
	return cfg, nil
}

// MergeBatteryConfig overlays non-zero fields from override onto base.
// Used when request parameters override configured defaults.
func MergeBatteryConfig(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	if override.ChargeHours != 0 {
		out.ChargeHours = override.ChargeHours
	}
	if override.DischargeHours != 0 {
		out.DischargeHours = override.DischargeHours
	}
	if override.CyclingCost != 0 {
		out.CyclingCost = override.CyclingCost
	}
	if override.WindowHours != 0 {
		out.WindowHours = override.WindowHours
	}
	return out
}

func (c BatteryConfig) Validate() error {
	if c.Efficiency <= 0 || c.Efficiency > 1 {
		return errors.New("Efficiency must be in (0, 1]")
	}
	if c.ChargeHours < 1 || c.DischargeHours < 1 {
		return errors.New("ChargeHours and DischargeHours must be >= 1")
	}
	if c.CyclingCost < 0 {
		return errors.New("CyclingCost must be >= 0")
	}
	if c.WindowHours < 1 {
		return errors.New("WindowHours must be >= 1")
	}
	return nil
}
