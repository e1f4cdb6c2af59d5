package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gridalpha/internal/analysis"
	"gridalpha/internal/data"
)

func nowEPT() time.Time {
	return time.Now().In(data.EPT())
}

// writeArbitrageCSV writes per-zone arbitrage results for spreadsheet
// analysis.
func writeArbitrageCSV(path string, results []analysis.ZoneArbitrage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"zone", "charge_price", "discharge_price", "gross_spread_per_mwh",
		"net_profit_per_mwh", "cycling_cost", "total_cycling_costs",
		"charge_hours_used", "discharge_hours_used", "hours_gated_out", "is_profitable",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Zone,
			fmt.Sprintf("%.4f", r.ChargePrice),
			fmt.Sprintf("%.4f", r.DischargePrice),
			fmt.Sprintf("%.4f", r.GrossSpread),
			fmt.Sprintf("%.4f", r.NetProfit),
			fmt.Sprintf("%.2f", r.CyclingCost),
			fmt.Sprintf("%.4f", r.TotalCyclingCost),
			fmt.Sprintf("%d", r.ChargeHoursUsed),
			fmt.Sprintf("%d", r.DischargeHoursUsed),
			fmt.Sprintf("%d", r.HoursGatedOut),
			fmt.Sprintf("%v", r.IsProfitable),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
