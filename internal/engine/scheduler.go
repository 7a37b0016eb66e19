package engine

import "encoding/binary"

// DefaultStaminaRegenAmount is how much stamina StaminaRegen restores on a
// no-op turn (spec.md §4.1 step 3a).
const DefaultStaminaRegenAmount int32 = 10

// ComputePriorityPlayerIndex is the pure function behind the priority
// resolution of spec.md §4.1 step 1: higher move priority first, ties
// broken by higher speed, remaining ties broken by a deterministic draw
// from seed. It never mutates anything and is safe to call from tests with
// fixed inputs (spec.md §8's "priority determinism" property).
func ComputePriorityPlayerIndex(p0Priority, p1Priority int32, p0Speed, p1Speed uint32, seed [32]byte) PlayerIndex {
	if p0Priority != p1Priority {
		if p0Priority > p1Priority {
			return Player0
		}
		return Player1
	}
	if p0Speed != p1Speed {
		if p0Speed > p1Speed {
			return Player0
		}
		return Player1
	}
	return PlayerIndex(rngRoll(seed, 3) % 2)
}

// priorityOf returns (movePriority, speed) for player's current decision.
func (b *Battle) priorityOf(ctx *BattleContext, player PlayerIndex) (int32, uint32) {
	decision := b.decisions[player]
	priority := SwitchPriority
	if decision != nil && decision.MoveIndex != SwitchMoveIndex && decision.MoveIndex != NoOpMoveIndex {
		if mon, ok := b.ActiveMon(player); ok && int(decision.MoveIndex) < MovesPerMon {
			if move, err := b.Config.MoveManager.ResolveMove(mon.Moves[decision.MoveIndex]); err == nil {
				priority = move.Priority(ctx, player)
			}
		}
	}
	mon, _ := b.ActiveMon(player)
	speed := EffectiveStat(mon.Stats.Speed, b.ActiveState(player).SpeedDelta)
	return priority, speed
}

// turnSeed derives the deterministic tie-break seed for this turn from the
// battle key and turn id, then runs it through the configured Rng so the
// draw is still attributable to whatever randomness source (VRF, commit
// salts, ...) the deployment supplies.
func (b *Battle) turnSeed() [32]byte {
	var buf [40]byte
	copy(buf[:32], b.Key[:])
	binary.BigEndian.PutUint64(buf[32:], b.State.TurnID)
	seed := DeriveBattleKey("", "", 0, buf[:])
	if b.Config.RNG != nil {
		return b.Config.RNG.GetRng(seed)
	}
	return seed
}

// participants returns the players who submitted a decision this turn,
// ordered by priority (highest first).
func (b *Battle) participants(ctx *BattleContext) []PlayerIndex {
	switch b.State.PlayerSwitchForTurnFlag {
	case 0:
		return []PlayerIndex{Player0}
	case 1:
		return []PlayerIndex{Player1}
	default:
		p0pri, p0spd := b.priorityOf(ctx, Player0)
		p1pri, p1spd := b.priorityOf(ctx, Player1)
		first := ComputePriorityPlayerIndex(p0pri, p1pri, p0spd, p1spd, b.turnSeed())
		return []PlayerIndex{first, first.Opponent()}
	}
}

// SetMove overwrites a player's decision for the current turn — the
// EVM-facing `setMove` write, used by pre-move statuses (sleep, panic) to
// replace a player's selection before it runs.
func (c *BattleContext) SetMove(player PlayerIndex, moveIndex uint8, extra ExtraData) {
	c.battle.decisions[player] = &Decision{MoveIndex: moveIndex, ExtraData: extra}
}

// SetDecisions records both players' revealed moves for the turn about to
// execute. The commit-reveal coordinator calls this once all required
// reveals for the turn are in, immediately before Execute.
func (b *Battle) SetDecisions(p0, p1 *Decision) {
	b.decisions[Player0] = p0
	b.decisions[Player1] = p1
}

// Execute runs the single transactional step of spec.md §4.1: priority
// resolution, RoundStart, both movers (in order), RoundEnd, the game-over
// check, and the clock update. It is invoked once per turn by the
// commit-reveal coordinator after every required reveal for the turn has
// landed.
func (b *Battle) Execute() error {
	if b.State.Winner != nil {
		return ErrBattleOver
	}
	b.Phase = PhaseExecuting
	ctx := newBattleContext(b)

	for _, h := range b.Config.Hooks {
		h.OnTurnStart(b.Key, b.State.TurnID)
	}

	order := b.participants(ctx)

	b.effects.RoundStart(ctx)

	for i, mover := range order {
		if i == 1 {
			if b.ActiveState(order[0].Opponent()).IsKnockedOut {
				break
			}
		}
		b.runMoverTurn(ctx, mover)
	}

	b.effects.RoundEnd(ctx)

	gameOver := b.checkGameOver(ctx)
	if !gameOver {
		b.queueNextTurnFlag()
	}

	for _, h := range b.Config.Hooks {
		h.OnTurnEnd(b.Key, b.State.TurnID)
	}

	b.emit(Event{Type: EventExecute, BattleKey: b.Key, TurnID: b.State.TurnID})

	b.decisions[Player0] = nil
	b.decisions[Player1] = nil
	b.State.TurnID++
	if !gameOver {
		b.Phase = PhaseAwaitingCommit
	}
	// Clock update happens last, after every validation/hook/KV write for
	// the turn (spec.md §4.1 step 7).
	b.State.LastTurnTimestamp = b.now()
	return nil
}

// runMoverTurn executes steps 3/4 of spec.md §4.1 for one participant.
func (b *Battle) runMoverTurn(ctx *BattleContext, mover PlayerIndex) {
	decision := b.decisions[mover]
	if decision == nil {
		decision = &Decision{MoveIndex: NoOpMoveIndex}
	}
	isAction := decision.MoveIndex != SwitchMoveIndex && decision.MoveIndex != NoOpMoveIndex

	if isAction {
		if mon, ok := b.ActiveMon(mover); ok && int(decision.MoveIndex) < MovesPerMon {
			if move, err := b.Config.MoveManager.ResolveMove(mon.Moves[decision.MoveIndex]); err == nil {
				ctx.UpdateMonState(mover, StateStaminaDelta, -int32(move.Stamina()))
			}
		}
	}

	b.effects.BeforeMove(ctx, mover)

	if !b.ActiveState(mover).ShouldSkipTurn {
		b.runDecision(ctx, mover, decision)
	}

	b.effects.AfterMove(ctx, mover)

	b.checkAndFlagKO(ctx, mover)
	b.checkAndFlagKO(ctx, mover.Opponent())
}

func (b *Battle) runDecision(ctx *BattleContext, mover PlayerIndex, decision *Decision) {
	switch decision.MoveIndex {
	case SwitchMoveIndex:
		ctx.SwitchActiveMon(mover, decision.SwitchSlot)
		if mon, ok := b.ActiveMon(mover); ok && mon.Ability != "" {
			if ability, err := b.Config.MoveManager.ResolveAbility(mon.Ability); err == nil {
				idx := b.State.ActiveMonIndex[mover][0]
				ability.OnSwitchIn(ctx, mover, idx)
			}
		}
	case NoOpMoveIndex:
		// StaminaRegen's AfterMove hook (see builtins.go) performs the
		// actual regeneration; there is nothing to do here.
	default:
		mon, ok := b.ActiveMon(mover)
		if !ok || int(decision.MoveIndex) >= MovesPerMon {
			return
		}
		move, err := b.Config.MoveManager.ResolveMove(mon.Moves[decision.MoveIndex])
		if err != nil {
			return
		}
		_ = move.Invoke(ctx, mover, decision.ExtraData, b.Config.RNG)
	}
}

// checkAndFlagKO mirrors step (e): if player's active mon has newly become
// knocked out, make sure ShouldSkipTurn is set (DealDamage already does
// this; this also covers knockouts effects apply directly via
// UpdateMonState rather than DealDamage).
func (b *Battle) checkAndFlagKO(ctx *BattleContext, player PlayerIndex) {
	mon, ok := b.ActiveMon(player)
	if !ok {
		return
	}
	state := b.ActiveState(player)
	if state.IsKnockedOut {
		return
	}
	if int64(mon.Stats.HP)+int64(state.EffectiveHPDelta()) <= 0 {
		state.IsKnockedOut = true
		state.ShouldSkipTurn = true
		idx := b.State.ActiveMonIndex[player]
		if len(idx) > 0 && idx[0] >= 0 {
			b.setKOBit(player, idx[0])
		}
	}
}

// checkGameOver implements step 6's termination check (invariant 1 & 6).
func (b *Battle) checkGameOver(ctx *BattleContext) bool {
	full := func(p PlayerIndex) bool {
		teamSize := b.TeamSize()
		if teamSize <= 0 || teamSize > 64 {
			return false
		}
		mask := uint64(1)<<uint(teamSize) - 1
		return b.State.KnockoutBitmaps[p]&mask == mask
	}
	var winner *PlayerIndex
	switch {
	case full(Player0):
		w := Player1
		winner = &w
	case full(Player1):
		w := Player0
		winner = &w
	}
	if winner == nil {
		return false
	}
	b.State.Winner = winner
	b.Phase = PhaseGameOver
	for _, h := range b.Config.Hooks {
		h.OnBattleEnd(b.Key, winner)
	}
	b.emit(Event{Type: EventBattleEnd, BattleKey: b.Key, TurnID: b.State.TurnID, Fields: map[string]any{
		"winner": *winner,
	}})
	return true
}

// queueNextTurnFlag implements step 6's "for each player with an active mon
// now KO'd, set playerSwitchForTurnFlag to that player's index; if both,
// p0's KO takes precedence and p1 re-queues" rule.
func (b *Battle) queueNextTurnFlag() {
	p0KO := b.ActiveState(Player0).IsKnockedOut
	p1KO := b.ActiveState(Player1).IsKnockedOut
	switch {
	case p0KO && p1KO:
		b.State.PlayerSwitchForTurnFlag = 0
		b.p1SwitchQueued = true
	case p0KO:
		b.State.PlayerSwitchForTurnFlag = 0
	case p1KO:
		b.State.PlayerSwitchForTurnFlag = 1
		b.p1SwitchQueued = false
	default:
		if b.p1SwitchQueued {
			b.State.PlayerSwitchForTurnFlag = 1
			b.p1SwitchQueued = false
		} else {
			b.State.PlayerSwitchForTurnFlag = 2
		}
	}
}
