package engine

import "github.com/sirupsen/logrus"

// EventType names one of the user-visible occurrences spec.md §7 lists as
// the success-path output of the engine.
type EventType string

const (
	EventBattleStart    EventType = "BattleStart"
	EventCommit         EventType = "Commit"
	EventReveal         EventType = "Reveal"
	EventExecute        EventType = "Execute"
	EventDamage         EventType = "Damage"
	EventEffectApplied  EventType = "EffectApplied"
	EventEffectRemoved  EventType = "EffectRemoved"
	EventSwitch         EventType = "Switch"
	EventBattleEnd      EventType = "BattleEnd"
)

// Event is one entry in the engine's event stream. Fields is a flat map of
// event-specific data (damage amount, effect ref, switch target, ...).
type Event struct {
	Type      EventType
	BattleKey BattleKey
	TurnID    uint64
	Fields    map[string]any
}

// EventSink receives every event the engine emits. Multiple sinks can
// observe the same battle (e.g. a logging sink and a test-recording sink).
type EventSink interface {
	Emit(Event)
}

// MultiSink fans a single emission out to every sink in the slice, the
// "one producer, two observers" wiring SPEC_FULL.md describes for events vs.
// logs.
type MultiSink []EventSink

func (m MultiSink) Emit(e Event) {
	for _, sink := range m {
		sink.Emit(e)
	}
}

// LogrusSink renders each event as a structured logrus entry, one field per
// event field plus battle_key/turn_id, matching the field-per-concern
// logging idiom the teacher's lib/config and lib/dialog packages use.
type LogrusSink struct {
	Logger *logrus.Logger
}

// NewLogrusSink returns a sink backed by logger, or logrus.StandardLogger()
// if logger is nil.
func NewLogrusSink(logger *logrus.Logger) LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return LogrusSink{Logger: logger}
}

func (s LogrusSink) Emit(e Event) {
	fields := logrus.Fields{
		"battle_key": e.BattleKey,
		"turn_id":    e.TurnID,
		"event":      string(e.Type),
	}
	for k, v := range e.Fields {
		fields[k] = v
	}
	s.Logger.WithFields(fields).Info(string(e.Type))
}

// RecordingSink accumulates every emitted event in order; it exists for
// tests that assert on the event stream instead of (or alongside) state.
type RecordingSink struct {
	Events []Event
}

func (s *RecordingSink) Emit(e Event) {
	s.Events = append(s.Events, e)
}
