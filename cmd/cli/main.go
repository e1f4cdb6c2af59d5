package main

import (
	"flag"
	"fmt"
	"os"

	"gridalpha/internal/analysis"
	"gridalpha/internal/data"
	"gridalpha/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "lmp":
		cmdLMP(os.Args[2:])
	case "spark":
		cmdSpark(os.Args[2:])
	case "arbitrage":
		cmdArbitrage(os.Args[2:])
	case "convergence":
		cmdConvergence(os.Args[2:])
	case "resource-gap":
		cmdResourceGap(os.Args[2:])
	case "marginal-fuel":
		cmdMarginalFuel(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli lmp --zone BGE [--snapshot snapshot.json]")
	fmt.Println("  cli spark [--heat-rate 7.0 --gas-price 4.0]")
	fmt.Println("  cli arbitrage [--efficiency 0.87 --cycling-cost 20] [--out results/arbitrage.csv]")
	fmt.Println("  cli convergence --zone COMED")
	fmt.Println("  cli resource-gap [--zone BGE]")
	fmt.Println("  cli marginal-fuel --date 2026-02-19 --hour 14")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - commands run against the bundled snapshot unless --snapshot points to a capture")
	fmt.Println("  - capture fresh data with the fetch command")
}

func loadSnapshot(path string) *data.Snapshot {
	if path == "" {
		snap, err := data.DefaultSnapshot()
		if err != nil {
			panic(err)
		}
		return snap
	}
	snap, err := data.LoadSnapshot(path)
	if err != nil {
		panic(err)
	}
	return snap
}

func cmdLMP(args []string) {
	fs := flag.NewFlagSet("lmp", flag.ExitOnError)
	zone := fs.String("zone", "PJM-RTO", "PJM zone")
	snapPath := fs.String("snapshot", "", "Path to snapshot JSON (default: bundled)")
	_ = fs.Parse(args)

	snap := loadSnapshot(*snapPath)
	series := model.BuildZoneSeries(snap.RTRows)
	records, summary := analysis.DecomposeLMP(series[*zone])

	fmt.Printf("%-20s %-10s %-10s %-10s %-10s\n", "hour", "total", "energy", "congestion", "loss")
	for _, r := range records {
		fmt.Printf("%-20s %-10.2f %-10.2f %-10.2f %-10.2f\n",
			r.HourEPT.Format("2006-01-02 15:04"), r.Total, r.Energy, r.Congestion, r.Loss)
	}
	fmt.Printf("\navg=$%.2f max=$%.2f min=$%.2f over %d hours\n",
		summary.AvgTotal, summary.MaxTotal, summary.MinTotal, summary.TotalHours)
}

func cmdSpark(args []string) {
	fs := flag.NewFlagSet("spark", flag.ExitOnError)
	heatRate := fs.Float64("heat-rate", 0, "Heat rate, MMBtu/MWh (0=default)")
	gasPrice := fs.Float64("gas-price", 0, "Gas price, $/MMBtu (0=default)")
	snapPath := fs.String("snapshot", "", "Path to snapshot JSON (default: bundled)")
	top := fs.Int("top", 20, "Show top N hours")
	_ = fs.Parse(args)

	calc, err := analysis.NewSparkSpreadCalc(*heatRate, *gasPrice)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	snap := loadSnapshot(*snapPath)
	hours, summary := calc.Run(model.BuildZoneSeries(snap.RTRows))
	if *top > 0 && *top < len(hours) {
		hours = hours[:*top]
	}

	fmt.Printf("gas cost: $%.2f/MWh\n\n", summary.GasCost)
	fmt.Printf("%-10s %-20s %-10s %-10s %-8s\n", "zone", "hour", "lmp", "spread", "economic")
	for _, h := range hours {
		fmt.Printf("%-10s %-20s %-10.2f %-10.2f %-8v\n",
			h.Zone, h.HourEPT.Format("2006-01-02 15:04"), h.LMP, h.Spread, h.Economic)
	}
	fmt.Printf("\n%d of %d hours economic, best zone %s ($%.2f)\n",
		summary.EconomicHours, summary.TotalHours, summary.BestZone, summary.BestSpread)
}

func cmdArbitrage(args []string) {
	fs := flag.NewFlagSet("arbitrage", flag.ExitOnError)
	efficiency := fs.Float64("efficiency", 0, "Round-trip efficiency (0=default)")
	chargeHours := fs.Int("charge-hours", 0, "Charge hours (0=default)")
	dischargeHours := fs.Int("discharge-hours", 0, "Discharge hours (0=default)")
	cyclingCost := fs.Float64("cycling-cost", 0, "Cycling cost $/MWh (0=default)")
	snapPath := fs.String("snapshot", "", "Path to snapshot JSON (default: bundled)")
	outPath := fs.String("out", "", "Optional: write results CSV")
	_ = fs.Parse(args)

	cfg := model.MergeBatteryConfig(model.DefaultBatteryConfig(), model.BatteryConfig{
		Efficiency:     *efficiency,
		ChargeHours:    *chargeHours,
		DischargeHours: *dischargeHours,
		CyclingCost:    *cyclingCost,
	})
	opt, err := analysis.NewArbitrageOptimizer(cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	snap := loadSnapshot(*snapPath)
	results, summary := opt.Run(model.BuildZoneSeries(snap.RTRows))

	fmt.Printf("%-10s %-10s %-12s %-10s %-10s %-6s\n", "zone", "charge$", "discharge$", "gross$", "net$", "gated")
	for _, r := range results {
		fmt.Printf("%-10s %-10.2f %-12.2f %-10.2f %-10.2f %-6d\n",
			r.Zone, r.ChargePrice, r.DischargePrice, r.GrossSpread, r.NetProfit, r.HoursGatedOut)
	}
	fmt.Printf("\n%d of %d zones profitable, best %s ($%.2f gross)\n",
		summary.ProfitableZones, summary.TotalZones, summary.BestZone, summary.BestGrossSpread)

	if *outPath != "" {
		if err := writeArbitrageCSV(*outPath, results); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(results), *outPath)
	}
}

func cmdConvergence(args []string) {
	fs := flag.NewFlagSet("convergence", flag.ExitOnError)
	zone := fs.String("zone", "PJM-RTO", "PJM zone")
	snapPath := fs.String("snapshot", "", "Path to snapshot JSON (default: bundled)")
	_ = fs.Parse(args)

	snap := loadSnapshot(*snapPath)
	da := model.BuildZoneSeries(snap.DARows)[*zone]
	rt := model.BuildZoneSeries(snap.RTRows)[*zone]
	res := analysis.AnalyzeConvergence(*zone, da.Points(), rt.Points())

	fmt.Printf("%-20s %-10s %-10s %-10s %-10s\n", "hour", "da", "rt", "spread", "flag")
	for _, r := range res.Records {
		fmt.Printf("%-20s %-10.2f %-10.2f %-10.2f %-10s\n",
			r.HourEPT.Format("2006-01-02 15:04"), r.DAPrice, r.RTPrice, r.Spread, r.EventFlag)
	}
	fmt.Printf("\navg spread $%.2f | scarcity %dh, oversupply %dh | %s\n",
		res.AvgSpread, res.ScarcityHours, res.OversupplyHours, res.DominantSignal)
	fmt.Println(res.MarketNarrative)
}

func cmdResourceGap(args []string) {
	fs := flag.NewFlagSet("resource-gap", flag.ExitOnError)
	zone := fs.String("zone", "", "PJM zone (empty=all)")
	rate := fs.Float64("success-rate", 0, "Queue success rate (0=default)")
	_ = fs.Parse(args)

	scorer, err := analysis.NewAdequacyScorer(*rate)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	results, summary, err := scorer.Score(*zone)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("%-10s %-12s %-12s %-12s %-6s\n", "zone", "retiring", "elcc-adj", "deficit", "score")
	for _, r := range results {
		fmt.Printf("%-10s %-12.0f %-12.0f %-12.0f %-6d\n",
			r.Zone, r.RetiringMW, r.ELCCAdjustedMW, r.DeficitMW, r.ReliabilityScore)
	}
	fmt.Printf("\n%d critical zones, %.0f MW total deficit, most at risk %s (system score %d)\n",
		summary.CriticalZones, summary.TotalDeficitMW, summary.MostAtRisk, summary.SystemScore)
}

func cmdMarginalFuel(args []string) {
	fs := flag.NewFlagSet("marginal-fuel", flag.ExitOnError)
	zone := fs.String("zone", "", "PJM zone (empty=all)")
	date := fs.String("date", "", "Date YYYY-MM-DD (empty=today EPT)")
	hour := fs.Int("hour", -1, "Hour 0-23 (-1=now EPT)")
	_ = fs.Parse(args)

	now := nowEPT()
	if *date == "" {
		*date = now.Format("2006-01-02")
	}
	if *hour < 0 {
		*hour = now.Hour()
	}

	results, summary := analysis.SimulateMarginalFuel(*zone, *date, *hour)

	fmt.Printf("%-10s %-10s %-8s %-8s\n", "zone", "fuel", "fossil", "signal")
	for _, r := range results {
		fmt.Printf("%-10s %-10s %-8v %-8d\n", r.Zone, r.CurrentFuel, r.IsFossil, r.SignalStrength)
	}
	fmt.Printf("\n%d fossil / %d renewable of %d zones at %s %02d:00 EPT\n",
		summary.FossilZones, summary.RenewableZones, summary.TotalZones, *date, *hour)
}
