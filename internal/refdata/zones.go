// Package refdata carries the static PJM reference tables: zone adequacy
// profiles, ELCC accreditation factors, marginal fuel dispatch weights, and
// NOAA/load area mappings. Everything here is compiled in; nothing is
// fetched at runtime.
package refdata

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed zones.yaml
var zonesYAML []byte

// ZoneProfile describes one PJM zone's capacity adequacy inputs.
type ZoneProfile struct {
	RetiringMW     float64            `yaml:"retiring_mw"`     // MW deactivating through 2028
	QueueMW        float64            `yaml:"queue_mw"`        // nameplate MW in interconnection queue
	PeakLoadMW     float64            `yaml:"peak_load_mw"`    // approximate zone peak load
	QueueMix       map[string]float64 `yaml:"queue_mix"`       // fractional mix by fuel type, sums to 1.0
	KeyRetirements []string           `yaml:"key_retirements"` // human-readable retiring plant list
}

type zonesFile struct {
	Zones map[string]ZoneProfile `yaml:"zones"`
}

var (
	zonesOnce sync.Once
	zones     map[string]ZoneProfile
	zonesErr  error
)

// ZoneProfiles returns the embedded adequacy profiles, keyed by zone name.
// The map is parsed once and shared; callers must not mutate it.
func ZoneProfiles() (map[string]ZoneProfile, error) {
	zonesOnce.Do(func() {
		var f zonesFile
		if err := yaml.Unmarshal(zonesYAML, &f); err != nil {
			zonesErr = fmt.Errorf("refdata: parsing zones.yaml: %w", err)
			return
		}
		if len(f.Zones) == 0 {
			zonesErr = fmt.Errorf("refdata: zones.yaml contains no zones")
			return
		}
		zones = f.Zones
	})
	return zones, zonesErr
}

// ProfileZoneNames returns the profiled zone names in ascending order.
func ProfileZoneNames() ([]string, error) {
	profiles, err := ZoneProfiles()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(profiles))
	for z := range profiles {
		names = append(names, z)
	}
	sort.Strings(names)
	return names, nil
}
