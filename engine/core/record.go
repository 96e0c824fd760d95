// ABOUTME: LogRecord is the tagged union persisted to the JSONL log and replayed on recovery.
// ABOUTME: JSON shape mirrors the teacher's EventPayload "type"-discriminator convention.
package core

import (
	"encoding/json"
	"fmt"
)

// LogRecord is one durable entry in a campaign's append-only log.
type LogRecord interface {
	RecordType() string
	recordSeal()
}

// CampaignCreatedRecord is always the first record in a campaign's log.
type CampaignCreatedRecord struct {
	Campaign Campaign `json:"campaign"`
	Actors   []Actor  `json:"actors"`
}

func (CampaignCreatedRecord) RecordType() string { return "CampaignCreated" }
func (CampaignCreatedRecord) recordSeal()         {}

// EventAppendedRecord records a new Event in the log.
type EventAppendedRecord struct {
	Event Event `json:"event"`
}

func (EventAppendedRecord) RecordType() string { return "EventAppended" }
func (EventAppendedRecord) recordSeal()         {}

// MemoryWrittenRecord records a new Memory entry.
type MemoryWrittenRecord struct {
	Memory Memory `json:"memory"`
}

func (MemoryWrittenRecord) RecordType() string { return "MemoryWritten" }
func (MemoryWrittenRecord) recordSeal()         {}

// RollRecordedRecord records a dice roll.
type RollRecordedRecord struct {
	Roll Roll `json:"roll"`
}

func (RollRecordedRecord) RecordType() string { return "RollRecorded" }
func (RollRecordedRecord) recordSeal()         {}

// StateMutatedRecord records one StateKV upsert.
type StateMutatedRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (StateMutatedRecord) RecordType() string { return "StateMutated" }
func (StateMutatedRecord) recordSeal()         {}

// TurnAdvancedRecord records the campaign-level effects of a turn advance.
type TurnAdvancedRecord struct {
	TurnOwner    string `json:"turn_owner"`
	AIOnlyStreak int    `json:"ai_only_streak"`
}

func (TurnAdvancedRecord) RecordType() string { return "TurnAdvanced" }
func (TurnAdvancedRecord) recordSeal()         {}

// MarshalLogRecord serializes a LogRecord with a "type" discriminator.
func MarshalLogRecord(r LogRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil log record")
	}
	return marshalTagged(r.RecordType(), r)
}

// UnmarshalLogRecord deserializes a LogRecord from JSON with a "type" discriminator.
func UnmarshalLogRecord(data []byte) (LogRecord, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal log record type: %w", err)
	}

	switch envelope.Type {
	case "CampaignCreated":
		var r CampaignCreatedRecord
		return r, json.Unmarshal(data, &r)
	case "EventAppended":
		var r EventAppendedRecord
		return r, json.Unmarshal(data, &r)
	case "MemoryWritten":
		var r MemoryWrittenRecord
		return r, json.Unmarshal(data, &r)
	case "RollRecorded":
		var r RollRecordedRecord
		return r, json.Unmarshal(data, &r)
	case "StateMutated":
		var r StateMutatedRecord
		return r, json.Unmarshal(data, &r)
	case "TurnAdvanced":
		var r TurnAdvancedRecord
		return r, json.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("unknown log record type: %q", envelope.Type)
	}
}

func marshalTagged(typeName string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	typeJSON, _ := json.Marshal(typeName)
	m["type"] = typeJSON
	return json.Marshal(m)
}

// ApplyRecord replays one LogRecord against the aggregate, reconstructing the state the
// log records carry. Director cursors and the floor lock have no record and are not
// restored. Used by engine/store on recovery.
func (a *CampaignAggregate) ApplyRecord(r LogRecord) {
	switch rec := r.(type) {
	case CampaignCreatedRecord:
		a.Campaign = rec.Campaign
		a.Actors = make(map[string]Actor, len(rec.Actors))
		for _, act := range rec.Actors {
			a.Actors[act.ID] = act
		}
		a.StateKV = make(map[string]string)
		a.Cursors = make(map[string]ActorCursor)
	case EventAppendedRecord:
		rec.Event.seq = a.nextSeq
		a.nextSeq++
		a.Events = append(a.Events, rec.Event)
		if rec.Event.CreatedAt.After(a.lastEventTime) {
			a.lastEventTime = rec.Event.CreatedAt
		}
	case MemoryWrittenRecord:
		a.Memories = append(a.Memories, rec.Memory)
	case RollRecordedRecord:
		a.Rolls = append(a.Rolls, rec.Roll)
	case StateMutatedRecord:
		if a.StateKV == nil {
			a.StateKV = make(map[string]string)
		}
		a.StateKV[rec.Key] = rec.Value
	case TurnAdvancedRecord:
		a.Campaign.TurnOwner = rec.TurnOwner
		a.Campaign.AIOnlyStreak = rec.AIOnlyStreak
	}
}
