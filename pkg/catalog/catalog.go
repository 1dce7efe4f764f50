package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Control represents a single SOC 2 Trust Service Criteria control
type Control struct {
	ID                string `yaml:"id"`
	Category          string `yaml:"category"`
	Title             string `yaml:"title"`
	Description       string `yaml:"description"`
	CheckInstructions string `yaml:"check_instructions"`
}

// ScanType selects between the quick-scan subset and the full catalog
type ScanType string

const (
	ScanQuick ScanType = "quick"
	ScanFull  ScanType = "full"
)

// ParseScanType normalizes a scan type string. Anything other than "full"
// maps to the quick scan.
func ParseScanType(s string) ScanType {
	if s == string(ScanFull) {
		return ScanFull
	}
	return ScanQuick
}

// CategorySummary describes one control category and its members
type CategorySummary struct {
	Name       string
	Count      int
	ControlIDs []string
}

// Stats holds catalog-wide counts by control group
type Stats struct {
	TotalControls int
	Groups        map[string]int
}

//go:embed controls.yaml
var controlsYAML []byte

// quickScanIDs are the most critical controls covered by a quick scan:
// access controls, security operations, change management, risk management
// and backup/recovery.
var quickScanIDs = []string{
	"CC6.1", "CC6.2", "CC6.3",
	"CC7.2", "CC7.3",
	"CC8.1",
	"CC9.1",
	"A1.2",
}

// groupOrder fixes the order in which control groups are concatenated
var groupOrder = []string{
	"security",
	"availability",
	"processing_integrity",
	"confidentiality",
	"privacy",
}

type catalogFile struct {
	Groups map[string][]Control `yaml:"groups"`
}

var loaded catalogFile

func init() {
	if err := yaml.Unmarshal(controlsYAML, &loaded); err != nil {
		panic(fmt.Sprintf("catalog: failed to parse embedded controls.yaml: %v", err))
	}
}

// All returns every control in the catalog, in group order
func All() []Control {
	var controls []Control
	for _, g := range groupOrder {
		controls = append(controls, loaded.Groups[g]...)
	}
	return controls
}

// QuickScan returns the fixed 8-control quick-scan subset
func QuickScan() []Control {
	ids := make(map[string]bool, len(quickScanIDs))
	for _, id := range quickScanIDs {
		ids[id] = true
	}
	var controls []Control
	for _, c := range All() {
		if ids[c.ID] {
			controls = append(controls, c)
		}
	}
	return controls
}

// ForScanType returns the control set for the given scan type
func ForScanType(t ScanType) []Control {
	if t == ScanFull {
		return All()
	}
	return QuickScan()
}

// ByID looks up a single control by its identifier
func ByID(id string) (Control, bool) {
	for _, c := range All() {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}

// Categories returns the control categories with member counts, sorted by name
func Categories() []CategorySummary {
	byName := make(map[string]*CategorySummary)
	for _, c := range All() {
		s, ok := byName[c.Category]
		if !ok {
			s = &CategorySummary{Name: c.Category}
			byName[c.Category] = s
		}
		s.Count++
		s.ControlIDs = append(s.ControlIDs, c.ID)
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	summaries := make([]CategorySummary, 0, len(names))
	for _, n := range names {
		summaries = append(summaries, *byName[n])
	}
	return summaries
}

// Summary returns catalog-wide statistics
func Summary() Stats {
	s := Stats{Groups: make(map[string]int)}
	for _, g := range groupOrder {
		s.Groups[g] = len(loaded.Groups[g])
		s.TotalControls += len(loaded.Groups[g])
	}
	return s
}
