// ABOUTME: Goroutine-based actor serializing all commands for one campaign (component boundary for §5).
// ABOUTME: Grounded on spec/core/actor.go's SpecActorHandle/specActor pair; the channel IS the per-campaign lock.
package core

import (
	"sync"
)

// RecordBroadcaster fans LogRecords out to subscribers (e.g. the async JSONL persister).
// Mirrors the teacher's EventBroadcaster: buffered per-subscriber channels, non-blocking send.
type RecordBroadcaster struct {
	mu          sync.RWMutex
	subscribers []chan LogRecord
}

func NewRecordBroadcaster() *RecordBroadcaster { return &RecordBroadcaster{} }

func (b *RecordBroadcaster) Subscribe() chan LogRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan LogRecord, 4096)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

func (b *RecordBroadcaster) Unsubscribe(ch chan LogRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (b *RecordBroadcaster) Broadcast(r LogRecord) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- r:
		default:
		}
	}
}

type commandMessage struct {
	cmd   Command
	reply chan commandResult
}

type commandResult struct {
	value any
	err   error
}

// CampaignActorHandle is the public interface for interacting with a campaign actor.
// It is safe for concurrent use; every command is processed one at a time by the owning
// goroutine, which is how the per-campaign exclusivity required by the specification's
// concurrency model is achieved without any explicit lock around the aggregate.
type CampaignActorHandle struct {
	cmdCh       chan commandMessage
	broadcaster *RecordBroadcaster
	CampaignID  string
}

// SpawnCampaignActor starts the actor goroutine owning agg and returns a handle to it.
func SpawnCampaignActor(agg *CampaignAggregate) *CampaignActorHandle {
	cmdCh := make(chan commandMessage, 64)
	broadcaster := NewRecordBroadcaster()
	handle := &CampaignActorHandle{cmdCh: cmdCh, broadcaster: broadcaster, CampaignID: agg.Campaign.ID}
	a := &campaignActor{handle: handle, agg: agg, cmdCh: cmdCh}
	go a.run()
	return handle
}

// Subscribe returns a channel receiving every LogRecord committed by this actor.
func (h *CampaignActorHandle) Subscribe() chan LogRecord { return h.broadcaster.Subscribe() }

// Unsubscribe removes and closes a subscriber channel.
func (h *CampaignActorHandle) Unsubscribe(ch chan LogRecord) { h.broadcaster.Unsubscribe(ch) }

func (h *CampaignActorHandle) send(cmd Command) (any, error) {
	reply := make(chan commandResult, 1)
	select {
	case h.cmdCh <- commandMessage{cmd: cmd, reply: reply}:
	default:
		return nil, ErrActorBusy
	}
	res := <-reply
	return res.value, res.err
}

func (h *CampaignActorHandle) AppendEvent(actorID, eventType, content, visibility string) (Event, error) {
	v, err := h.send(AppendEventCommand{ActorID: actorID, EventType: eventType, Content: content, Visibility: visibility})
	if err != nil {
		return Event{}, err
	}
	return v.(Event), nil
}

func (h *CampaignActorHandle) WriteMemory(actorID, scope, text string, tags []string) (Memory, error) {
	v, err := h.send(WriteMemoryCommand{ActorID: actorID, Scope: scope, Text: text, Tags: tags})
	if err != nil {
		return Memory{}, err
	}
	return v.(Memory), nil
}

func (h *CampaignActorHandle) Mutate(actorID string, mutations []Mutation) ([]MutationResult, error) {
	v, err := h.send(MutateCommand{ActorID: actorID, Mutations: mutations})
	if err != nil {
		return nil, err
	}
	return v.([]MutationResult), nil
}

func (h *CampaignActorHandle) AdvanceTurn(aiOnlyStreakLimit int) (AdvanceResult, error) {
	v, err := h.send(AdvanceTurnCommand{AIOnlyStreakLimit: aiOnlyStreakLimit})
	if err != nil {
		return AdvanceResult{}, err
	}
	return v.(AdvanceResult), nil
}

func (h *CampaignActorHandle) NextContext(cfg DirectorConfig, maxEvents, maxMemories int) (DirectorPackage, error) {
	v, err := h.send(NextContextCommand{Config: cfg, MaxEvents: maxEvents, MaxMemories: maxMemories})
	if err != nil {
		return DirectorPackage{}, err
	}
	return v.(DirectorPackage), nil
}

func (h *CampaignActorHandle) GetState(viewerActorID string) (CampaignState, error) {
	v, err := h.send(GetStateCommand{ViewerActorID: viewerActorID})
	if err != nil {
		return CampaignState{}, err
	}
	return v.(CampaignState), nil
}

func (h *CampaignActorHandle) ListEvents(viewerActorID, afterEventID string) ([]Event, error) {
	v, err := h.send(ListEventsCommand{ViewerActorID: viewerActorID, AfterEventID: afterEventID})
	if err != nil {
		return nil, err
	}
	return v.([]Event), nil
}

func (h *CampaignActorHandle) ReadMemory(viewerActorID, scopeFilter string, dmOmniscientPrivate bool) ([]Memory, error) {
	v, err := h.send(ReadMemoryCommand{ViewerActorID: viewerActorID, ScopeFilter: scopeFilter, DMOmniscientPrivate: dmOmniscientPrivate})
	if err != nil {
		return nil, err
	}
	return v.([]Memory), nil
}

func (h *CampaignActorHandle) RollDice(actorID, expr, reason string) (Roll, error) {
	v, err := h.send(RollDiceCommand{ActorID: actorID, Expr: expr, Reason: reason})
	if err != nil {
		return Roll{}, err
	}
	return v.(Roll), nil
}

// campaignActor is the internal goroutine that owns and mutates the aggregate.
type campaignActor struct {
	handle *CampaignActorHandle
	agg    *CampaignAggregate
	cmdCh  chan commandMessage
}

func (a *campaignActor) run() {
	for msg := range a.cmdCh {
		msg.reply <- a.process(msg.cmd)
	}
}

func (a *campaignActor) process(cmd Command) commandResult {
	switch c := cmd.(type) {
	case AppendEventCommand:
		ev := a.agg.appendEvent(c.ActorID, c.EventType, c.Content, c.Visibility)
		a.handle.broadcaster.Broadcast(EventAppendedRecord{Event: ev})
		return commandResult{value: ev}

	case WriteMemoryCommand:
		m := a.agg.appendMemory(c.ActorID, c.Scope, c.Text, c.Tags)
		a.handle.broadcaster.Broadcast(MemoryWrittenRecord{Memory: m})
		return commandResult{value: m}

	case MutateCommand:
		results, err := a.agg.Mutate(c.Mutations)
		if err != nil {
			return commandResult{err: err}
		}
		for _, r := range results {
			a.handle.broadcaster.Broadcast(StateMutatedRecord{Key: r.Key, Value: r.Value})
		}
		return commandResult{value: results}

	case AdvanceTurnCommand:
		res, err := a.agg.Advance(c.AIOnlyStreakLimit)
		if err != nil {
			return commandResult{err: err}
		}
		if res.RefocusTriggered {
			last := a.agg.Events[len(a.agg.Events)-1]
			a.handle.broadcaster.Broadcast(EventAppendedRecord{Event: last})
		}
		a.handle.broadcaster.Broadcast(TurnAdvancedRecord{TurnOwner: res.TurnOwner, AIOnlyStreak: res.AIOnlyStreak})
		return commandResult{value: res}

	case NextContextCommand:
		pkg, err := a.agg.NextContext(c.Config, c.MaxEvents, c.MaxMemories)
		if err != nil {
			return commandResult{err: err}
		}
		return commandResult{value: pkg}

	case GetStateCommand:
		st, err := a.agg.GetState(c.ViewerActorID)
		if err != nil {
			return commandResult{err: err}
		}
		return commandResult{value: st}

	case ListEventsCommand:
		return commandResult{value: a.agg.ListEvents(c.ViewerActorID, c.AfterEventID)}

	case ReadMemoryCommand:
		return commandResult{value: a.agg.ReadMemory(c.ViewerActorID, c.ScopeFilter, c.DMOmniscientPrivate)}

	case RollDiceCommand:
		total, _, breakdown, err := RollDice(c.Expr)
		if err != nil {
			return commandResult{err: err}
		}
		roll := Roll{
			ID:         NewID(),
			CampaignID: a.agg.Campaign.ID,
			ActorID:    c.ActorID,
			Expr:       c.Expr,
			Reason:     c.Reason,
			Result:     total,
			Breakdown:  breakdown,
			CreatedAt:  a.agg.monotonicNow(),
		}
		a.agg.Rolls = append(a.agg.Rolls, roll)
		a.handle.broadcaster.Broadcast(RollRecordedRecord{Roll: roll})
		ev := a.agg.appendEvent(c.ActorID, EventTypeRoll, breakdown, VisibilityPublic)
		a.handle.broadcaster.Broadcast(EventAppendedRecord{Event: ev})
		return commandResult{value: roll}

	default:
		return commandResult{err: ErrUnknownCommand}
	}
}
