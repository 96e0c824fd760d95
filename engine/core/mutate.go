// ABOUTME: StateKV mutation pipeline: hp_set, hp_delta, inventory_add/remove, flag_set, time_advance.
// ABOUTME: Grounded on original_source/engine/routers/campaigns.py's mutate_state handler.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

func hpKey(actorID string) string        { return "hp:" + actorID }
func inventoryKey(actorID string) string { return "inventory:" + actorID }
func flagKey(name string) string         { return "flag:" + name }

const timeKey = "time:current"

// Mutate applies a batch of mutations transactionally: the whole batch is validated and
// applied against a working copy of StateKV first, and only committed to the aggregate
// once every entry succeeds, per SPEC_FULL.md §7 (no partial batches).
func (a *CampaignAggregate) Mutate(mutations []Mutation) ([]MutationResult, error) {
	for _, m := range mutations {
		switch m.Type {
		case "hp_set", "hp_delta", "inventory_add", "inventory_remove", "flag_set", "time_advance":
		default:
			return nil, BadInput(fmt.Sprintf("unknown mutation type: %q", m.Type))
		}
	}

	working := make(map[string]string, len(a.StateKV))
	for k, v := range a.StateKV {
		working[k] = v
	}

	results := make([]MutationResult, 0, len(mutations))
	for _, m := range mutations {
		res, err := applyMutation(working, m)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	a.StateKV = working
	return results, nil
}

func applyMutation(kv map[string]string, m Mutation) (MutationResult, error) {
	switch m.Type {
	case "hp_set":
		actorID, hp, err := hpPayload(m.Payload)
		if err != nil {
			return MutationResult{}, err
		}
		key := hpKey(actorID)
		kv[key] = strconv.Itoa(hp)
		return MutationResult{Type: m.Type, Key: key, Value: kv[key]}, nil

	case "hp_delta":
		actorID, ok := m.Payload["actor_id"].(string)
		if !ok || actorID == "" {
			return MutationResult{}, BadInput("hp_delta requires actor_id")
		}
		delta, err := numberField(m.Payload, "delta")
		if err != nil {
			return MutationResult{}, err
		}
		key := hpKey(actorID)
		current := 0
		if v, ok := kv[key]; ok {
			current, _ = strconv.Atoi(v)
		}
		current += delta
		kv[key] = strconv.Itoa(current)
		return MutationResult{Type: m.Type, Key: key, Value: kv[key]}, nil

	case "inventory_add":
		actorID, ok := m.Payload["actor_id"].(string)
		if !ok || actorID == "" {
			return MutationResult{}, BadInput("inventory_add requires actor_id")
		}
		item, ok := m.Payload["item"].(string)
		if !ok || item == "" {
			return MutationResult{}, BadInput("inventory_add requires item")
		}
		key := inventoryKey(actorID)
		items := readInventory(kv[key])
		items = append(items, item)
		kv[key] = encodeInventory(items)
		return MutationResult{Type: m.Type, Key: key, Value: kv[key]}, nil

	case "inventory_remove":
		actorID, ok := m.Payload["actor_id"].(string)
		if !ok || actorID == "" {
			return MutationResult{}, BadInput("inventory_remove requires actor_id")
		}
		item, ok := m.Payload["item"].(string)
		if !ok || item == "" {
			return MutationResult{}, BadInput("inventory_remove requires item")
		}
		key := inventoryKey(actorID)
		items := readInventory(kv[key])
		items = removeFirst(items, item)
		kv[key] = encodeInventory(items)
		return MutationResult{Type: m.Type, Key: key, Value: kv[key]}, nil

	case "flag_set":
		name, ok := m.Payload["key"].(string)
		if !ok || name == "" {
			return MutationResult{}, BadInput("flag_set requires key")
		}
		encoded, err := json.Marshal(m.Payload["value"])
		if err != nil {
			return MutationResult{}, BadInput("flag_set value is not serializable")
		}
		key := flagKey(name)
		kv[key] = string(encoded)
		return MutationResult{Type: m.Type, Key: key, Value: kv[key]}, nil

	case "time_advance":
		amount, err := numberField(m.Payload, "amount")
		if err != nil {
			return MutationResult{}, err
		}
		unit, ok := m.Payload["unit"].(string)
		if !ok || unit == "" {
			return MutationResult{}, BadInput("time_advance requires unit")
		}
		kv[timeKey] = fmt.Sprintf("%d %s", amount, unit)
		return MutationResult{Type: m.Type, Key: timeKey, Value: kv[timeKey]}, nil
	}
	return MutationResult{}, BadInput(fmt.Sprintf("unknown mutation type: %q", m.Type))
}

func hpPayload(payload map[string]any) (string, int, error) {
	actorID, ok := payload["actor_id"].(string)
	if !ok || actorID == "" {
		return "", 0, BadInput("hp_set requires actor_id")
	}
	hp, err := numberField(payload, "hp")
	if err != nil {
		return "", 0, err
	}
	return actorID, hp, nil
}

func numberField(payload map[string]any, key string) (int, error) {
	v, ok := payload[key]
	if !ok {
		return 0, BadInput(fmt.Sprintf("missing field %q", key))
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, BadInput(fmt.Sprintf("field %q must be a number", key))
	}
}

func readInventory(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func encodeInventory(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func removeFirst(items []string, target string) []string {
	for i, it := range items {
		if it == target {
			out := make([]string, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return out
		}
	}
	return items
}
