package main

import (
	"flag"
	"fmt"
	"os"

	"gridalpha/internal/analysis"
	"gridalpha/internal/data"
	"gridalpha/internal/model"
)

// Demo:
// - Load a captured snapshot (bundled by default)
// - Run every analysis over it
// - Print a one-screen market overview to show how the pieces fit together
func main() {
	snapPath := flag.String("snapshot", "", "Path to snapshot JSON (default: bundled)")
	zone := flag.String("zone", "PJM-RTO", "Zone for the single-zone analyses")
	flag.Parse()

	var snap *data.Snapshot
	var err error
	if *snapPath == "" {
		snap, err = data.DefaultSnapshot()
	} else {
		snap, err = data.LoadSnapshot(*snapPath)
	}
	if err != nil {
		panic(err)
	}

	rt := model.BuildZoneSeries(snap.RTRows)
	da := model.BuildZoneSeries(snap.DARows)
	if _, ok := rt[*zone]; !ok {
		panic(fmt.Errorf("zone %q not in snapshot", *zone))
	}

	fmt.Printf("Snapshot captured %s, %d zones, zone focus %s\n\n",
		snap.CapturedAtEPT.Format("2006-01-02 15:04 MST"), len(rt), *zone)

	_, lmpSummary := analysis.DecomposeLMP(rt[*zone])
	fmt.Printf("LMP           avg=$%.2f min=$%.2f max=$%.2f over %d hours\n",
		lmpSummary.AvgTotal, lmpSummary.MinTotal, lmpSummary.MaxTotal, lmpSummary.TotalHours)

	calc, err := analysis.NewSparkSpreadCalc(0, 0)
	if err != nil {
		panic(err)
	}
	_, sparkSummary := calc.Run(rt)
	fmt.Printf("Spark spread  %d of %d hours economic at $%.2f/MWh gas cost, best %s ($%.2f)\n",
		sparkSummary.EconomicHours, sparkSummary.TotalHours, sparkSummary.GasCost,
		sparkSummary.BestZone, sparkSummary.BestSpread)

	opt, err := analysis.NewArbitrageOptimizer(model.DefaultBatteryConfig())
	if err != nil {
		panic(err)
	}
	_, arbSummary := opt.Run(rt)
	fmt.Printf("Arbitrage     %d of %d zones profitable, best %s ($%.2f gross)\n",
		arbSummary.ProfitableZones, arbSummary.TotalZones,
		arbSummary.BestZone, arbSummary.BestGrossSpread)

	conv := analysis.AnalyzeConvergence(*zone, da[*zone].Points(), rt[*zone].Points())
	fmt.Printf("Convergence   avg DA-RT spread $%.2f, scarcity %dh, oversupply %dh, signal %s\n",
		conv.AvgSpread, conv.ScarcityHours, conv.OversupplyHours, conv.DominantSignal)

	scorer, err := analysis.NewAdequacyScorer(0)
	if err != nil {
		panic(err)
	}
	_, gapSummary, err := scorer.Score("")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Resource gap  %d critical zones, %.0f MW total deficit, most at risk %s\n",
		gapSummary.CriticalZones, gapSummary.TotalDeficitMW, gapSummary.MostAtRisk)

	date := snap.CapturedAtEPT.Format("2006-01-02")
	hour := snap.CapturedAtEPT.Hour()
	fuels, fuelSummary := analysis.SimulateMarginalFuel(*zone, date, hour)
	if len(fuels) == 0 {
		fmt.Printf("Marginal fuel no simulation for zone %s\n", *zone)
		os.Exit(1)
	}
	fmt.Printf("Marginal fuel %s at %s %02d:00 EPT (%d fossil / %d renewable zones system-wide)\n",
		fuels[0].CurrentFuel, date, hour, fuelSummary.FossilZones, fuelSummary.RenewableZones)

	station := snap.Stations[*zone]
	joined, weatherSummary := analysis.JoinWeatherLoad(
		*zone, station.ID, snap.ObsByStation[station.ID], snap.LoadByZone[*zone])
	if len(joined) > 0 {
		fmt.Printf("Weather       %s avg %.1f degF, %d heat / %d cold alert hours\n",
			station.ID, weatherSummary.AvgTempF, weatherSummary.HeatHours, weatherSummary.ColdHours)
	}

	fmt.Println("\nDone. Run the api command for the HTTP surface or cli for per-hour tables.")
}
