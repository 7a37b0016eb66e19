// Package hooks provides engine.Hook implementations. LoggingHook is the
// structured-logging observer, grounded in the same logrus usage the
// module's own engine.LogrusSink already establishes for events — this is the
// read-only, no-write-access counterpart for the coarser battle-lifecycle
// notifications (spec.md §6: "Hooks may not write engine state").
package hooks

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/monbattle/internal/engine"
)

// LoggingHook logs battle-lifecycle transitions via logrus.
type LoggingHook struct {
	logger *logrus.Logger
}

// NewLoggingHook wraps logger (or logrus.StandardLogger() if nil) as an
// engine.Hook.
func NewLoggingHook(logger *logrus.Logger) *LoggingHook {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) OnBattleStart(battleKey engine.BattleKey) {
	h.logger.WithField("battle_key", battleKey).Info("battle started")
}

func (h *LoggingHook) OnTurnStart(battleKey engine.BattleKey, turnID uint64) {
	h.logger.WithFields(logrus.Fields{"battle_key": battleKey, "turn_id": turnID}).Debug("turn started")
}

func (h *LoggingHook) OnTurnEnd(battleKey engine.BattleKey, turnID uint64) {
	h.logger.WithFields(logrus.Fields{"battle_key": battleKey, "turn_id": turnID}).Debug("turn ended")
}

func (h *LoggingHook) OnBattleEnd(battleKey engine.BattleKey, winner *engine.PlayerIndex) {
	fields := logrus.Fields{"battle_key": battleKey}
	if winner != nil {
		fields["winner"] = *winner
	}
	h.logger.WithFields(fields).Info("battle ended")
}
