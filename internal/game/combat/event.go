package combat

// EventKind names a notification emitted by a battle.
type EventKind string

const (
	EventBattleStarted    EventKind = "battle-started"
	EventTurnStarted      EventKind = "turn-started"
	EventTurnSkipped      EventKind = "turn-skipped"
	EventCorrupted        EventKind = "corrupted"
	EventMoveUsed         EventKind = "move-used"
	EventCooldownUsed     EventKind = "cooldown-used"
	EventMissed           EventKind = "missed"
	EventHealthChanged    EventKind = "health-changed"
	EventEnergyChanged    EventKind = "energy-changed"
	EventEffectApplied    EventKind = "effect-applied"
	EventEffectBlocked    EventKind = "effect-blocked"
	EventEffectsRemoved   EventKind = "effects-removed"
	EventEffectExpired    EventKind = "effect-expired"
	EventExtraTurnGranted EventKind = "extra-turn-granted"
	EventRevived          EventKind = "revived"
	EventUnitDied         EventKind = "unit-died"
	EventBattleOver       EventKind = "battle-over"
)

// NoUnit marks an Event field that does not refer to a combatant.
const NoUnit = -1

// Event is one notification for the presentation layer. Actor and Target are
// roster indices or NoUnit. Armor, Health and Energy carry applied deltas.
type Event struct {
	Kind   EventKind
	Turn   int
	Actor  int
	Target int
	Move   string
	Effect string
	Armor  int
	Health int
	Energy int
	Side   Side
}

// emit records ev and forwards it to the event handler.
func (b *Battle) emit(ev Event) {
	ev.Turn = b.turn
	b.events = append(b.events, ev)
	if b.onEvent != nil {
		b.onEvent(ev)
	}
}

func newEvent(kind EventKind, actor, target *Combatant) Event {
	ev := Event{Kind: kind, Actor: NoUnit, Target: NoUnit}
	if actor != nil {
		ev.Actor = actor.Index
		ev.Side = actor.Side
	}
	if target != nil {
		ev.Target = target.Index
	}
	return ev
}
