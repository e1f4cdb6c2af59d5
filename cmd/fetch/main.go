package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gridalpha/internal/data"
	"gridalpha/internal/model"
	"gridalpha/internal/refdata"
)

// fetch captures a live snapshot: RT and DA LMPs for every zone, load and
// a weather station plus observations for the requested zones. The output
// file is what the cli, demo, and api demo mode replay.
func main() {
	var (
		outputPath = flag.String("output", "snapshot.json", "Output snapshot path")
		zonesFlag  = flag.String("zones", "BGE,COMED,PSEG,AEP,PJM-RTO", "Comma-separated zones for load and weather capture")
		hours      = flag.Int("hours", 24, "Window length in hours, ending now")
		userAgent  = flag.String("user-agent", "", "NOAA User-Agent override")
	)
	flag.Parse()

	_ = godotenv.Load()

	zones := splitZones(*zonesFlag)
	if len(zones) == 0 {
		log.Fatal("no valid zones requested")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	pjm := data.NewPJMClient(os.Getenv("PJM_API_KEY"), "", "", 0, logger)
	noaa := data.NewNOAAClient("", *userAgent, logger)

	ctx := context.Background()
	end := time.Now().In(data.EPT()).Truncate(time.Hour)
	start := end.Add(-time.Duration(*hours) * time.Hour)

	fmt.Printf("Capturing %s to %s EPT for zones %s\n",
		start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"), strings.Join(zones, ","))

	rtRows, err := pjm.RTLMP(ctx, start, end)
	if err != nil {
		log.Fatalf("RT LMP fetch failed: %v", err)
	}
	fmt.Printf("  RT LMP: %d rows\n", len(rtRows))

	daRows, err := pjm.DALMP(ctx, start, end)
	if err != nil {
		log.Fatalf("DA LMP fetch failed: %v", err)
	}
	fmt.Printf("  DA LMP: %d rows\n", len(daRows))

	loadByZone := make(map[string][]model.LoadRow, len(zones))
	stations := make(map[string]data.StationInfo, len(zones))
	obsByStation := map[string][]model.TempObservation{}

	for _, zone := range zones {
		rows, err := pjm.HourlyLoad(ctx, zone, start, end)
		if err != nil {
			fmt.Printf("  Warning: load fetch for %s failed: %v\n", zone, err)
		} else {
			loadByZone[zone] = rows
			fmt.Printf("  Load %s: %d hours\n", zone, len(rows))
		}

		station, err := noaa.Station(ctx, zone)
		if err != nil {
			fmt.Printf("  Warning: station lookup for %s failed: %v\n", zone, err)
			continue
		}
		stations[zone] = station

		if _, done := obsByStation[station.ID]; done {
			continue
		}
		obs, err := noaa.Observations(ctx, station.ID, start)
		if err != nil {
			fmt.Printf("  Warning: observations for %s failed: %v\n", station.ID, err)
			continue
		}
		obsByStation[station.ID] = obs
		fmt.Printf("  Weather %s: %d hourly observations\n", station.ID, len(obs))
	}

	snap := data.Snapshot{
		CapturedAtEPT: time.Now().In(data.EPT()),
		RTRows:        rtRows,
		DARows:        daRows,
		LoadByZone:    loadByZone,
		ObsByStation:  obsByStation,
		Stations:      stations,
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatalf("encode snapshot: %v", err)
	}
	if err := os.WriteFile(*outputPath, raw, 0o644); err != nil {
		log.Fatalf("write snapshot: %v", err)
	}

	fmt.Printf("Saved snapshot to %s\n", *outputPath)
}

func splitZones(s string) []string {
	var zones []string
	for _, part := range strings.Split(s, ",") {
		zone := strings.ToUpper(strings.TrimSpace(part))
		if zone == "" {
			continue
		}
		if !refdata.IsZone(zone) {
			fmt.Printf("  Skipping unknown zone %q\n", zone)
			continue
		}
		zones = append(zones, zone)
	}
	return zones
}
