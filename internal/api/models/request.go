package models

// WindowQuery selects a zone and rolling window. Zero hours falls back
// to the configured default window.
type WindowQuery struct {
	Zone  string `form:"zone"`
	Hours int    `form:"hours" binding:"omitempty,min=1,max=168"`
}

// SparkSpreadQuery adds plant economics to a window query. Zero values
// select the benchmark defaults; out-of-domain values are rejected by
// the calculator.
type SparkSpreadQuery struct {
	WindowQuery
	HeatRate float64 `form:"heat_rate"`
	GasPrice float64 `form:"gas_price"`
}

// ArbitrageQuery parameterizes the battery model. Zero values fall back
// to configured defaults.
type ArbitrageQuery struct {
	WindowQuery
	Efficiency     float64 `form:"efficiency"`
	ChargeHours    int     `form:"charge_hours"`
	DischargeHours int     `form:"discharge_hours"`
	CyclingCost    float64 `form:"cycling_cost"`
}

// ResourceGapQuery selects a zone and queue success rate for the
// adequacy scorer. Empty zone scores every profiled zone.
type ResourceGapQuery struct {
	Zone        string  `form:"zone"`
	SuccessRate float64 `form:"success_rate"`
}

// MarginalFuelQuery selects a zone and hour for the fuel simulator.
// Hour defaults to the current EPT hour when absent.
type MarginalFuelQuery struct {
	Zone string `form:"zone"`
	Date string `form:"date"` // YYYY-MM-DD, defaults to today (EPT)
	Hour *int   `form:"hour" binding:"omitempty,min=0,max=23"`
}
