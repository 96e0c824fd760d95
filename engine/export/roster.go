// ABOUTME: YAML roster import/export, letting a campaign's actor list be bootstrapped from or snapshotted to a file.
// ABOUTME: Grounded on spec/export/yaml.go's use of gopkg.in/yaml.v3 for deterministic structured serialization.
package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

// YamlActor is a serializable YAML representation of a single actor in a roster file.
type YamlActor struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	ActorType string `yaml:"type"`
	IsAI      bool   `yaml:"is_ai"`
}

// YamlRoster is the top-level document shape for a campaign roster file.
type YamlRoster struct {
	Name   string      `yaml:"name"`
	Actors []YamlActor `yaml:"actors"`
}

// ExportRoster renders a campaign's name and actor roster as YAML, suitable for
// checking into version control alongside a play-by-post log.
func ExportRoster(campaignName string, actors []core.Actor) (string, error) {
	roster := YamlRoster{Name: campaignName}
	for _, a := range actors {
		roster.Actors = append(roster.Actors, YamlActor{
			ID:        a.ID,
			Name:      a.Name,
			ActorType: string(a.ActorType),
			IsAI:      a.IsAI,
		})
	}
	data, err := yaml.Marshal(&roster)
	if err != nil {
		return "", fmt.Errorf("yaml marshal roster: %w", err)
	}
	return string(data), nil
}

// ImportRoster parses a roster YAML document into a campaign name and actor list,
// ready to hand to core.CreateCampaign.
func ImportRoster(data []byte) (string, []core.Actor, error) {
	var roster YamlRoster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return "", nil, fmt.Errorf("yaml unmarshal roster: %w", err)
	}
	if roster.Name == "" {
		return "", nil, fmt.Errorf("roster is missing a campaign name")
	}

	actors := make([]core.Actor, 0, len(roster.Actors))
	for _, a := range roster.Actors {
		actors = append(actors, core.Actor{
			ID:        a.ID,
			Name:      a.Name,
			ActorType: core.ActorType(a.ActorType),
			IsAI:      a.IsAI,
		})
	}
	return roster.Name, actors, nil
}
