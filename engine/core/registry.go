// ABOUTME: CreateCampaign builds a fresh aggregate for a brand-new campaign and its actor roster.
// ABOUTME: Grounded on the teacher's CreateSpecCommand -> SpecCreatedPayload -> Apply pipeline.
package core

import "time"

// CreateCampaign validates an actor roster and builds a ready-to-spawn aggregate.
// Campaigns have a fixed roster: actors are not added or removed after creation (§3 Lifecycle).
func CreateCampaign(name string, actors []Actor) (*CampaignAggregate, error) {
	if name == "" {
		return nil, BadInput("campaign name is required")
	}
	if len(actors) == 0 {
		return nil, BadInput("campaign requires at least one actor")
	}
	seen := make(map[string]bool, len(actors))
	for _, a := range actors {
		if a.ID == "" {
			return nil, BadInput("actor id is required")
		}
		if seen[a.ID] {
			return nil, BadInput("duplicate actor id: " + a.ID)
		}
		seen[a.ID] = true
		switch a.ActorType {
		case ActorDM, ActorPlayer, ActorHuman:
		default:
			return nil, BadInput("unknown actor_type: " + string(a.ActorType))
		}
		if a.ActorType == ActorHuman && a.IsAI {
			return nil, BadInput("human actors cannot be AI: " + a.ID)
		}
	}

	campaign := Campaign{
		ID:        NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	agg := NewCampaignAggregate(campaign, actors)
	agg.Campaign.TurnOwner = agg.InitialTurnOwner()
	return agg, nil
}
