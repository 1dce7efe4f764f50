package remediation

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed action_items.yaml
var actionItemsYAML []byte

type actionTemplate struct {
	Action string `yaml:"action"`
	Hours  int    `yaml:"hours"`
}

var actionTemplates map[string][]actionTemplate

func init() {
	if err := yaml.Unmarshal(actionItemsYAML, &actionTemplates); err != nil {
		panic(fmt.Sprintf("remediation: failed to parse embedded action_items.yaml: %v", err))
	}
}

// GapTypeFunc classifies a gap description into an action-item template key
type GapTypeFunc func(description string) string

// gapTypeKeywords are checked in order; the first class with a matching
// keyword wins, and anything unmatched falls through to "procedure".
var gapTypeKeywords = []struct {
	gapType  string
	keywords []string
}{
	{"policy", []string{"policy", "document", "written"}},
	{"access", []string{"access", "permission", "role"}},
	{"monitoring", []string{"monitor", "log", "alert"}},
	{"technical", []string{"implement", "deploy", "configure"}},
}

// ClassifyGapType is the default gap classifier, a case-insensitive keyword
// match against fixed keyword sets.
func ClassifyGapType(description string) string {
	lower := strings.ToLower(description)
	for _, class := range gapTypeKeywords {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				return class.gapType
			}
		}
	}
	return "procedure"
}

// actionItemsFor instantiates the checklist template for a gap type with
// fresh item ids. Unknown gap types use the procedure template.
func actionItemsFor(gapType string) []ActionItem {
	template, ok := actionTemplates[gapType]
	if !ok {
		template = actionTemplates["procedure"]
	}

	items := make([]ActionItem, 0, len(template))
	for _, t := range template {
		items = append(items, ActionItem{
			ID:     uuid.NewString(),
			Action: t.Action,
			Hours:  t.Hours,
		})
	}
	return items
}
