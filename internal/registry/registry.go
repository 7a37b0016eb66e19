// Package registry provides in-memory TeamRegistry and MoveManager
// implementations: the thin, pluggable "team/mon registry" and "move
// manager" seams spec.md §1 keeps deliberately outside the core engine.
// Production deployments would back these with a database or a contract
// call; this package is what tests, internal/sample and cmd/battlesim wire
// up against.
package registry

import (
	"fmt"
	"sync"

	"github.com/opd-ai/monbattle/internal/engine"
)

// Teams is an in-memory TeamRegistry keyed by player identifier and team
// index, guarded by a mutex so concurrent battles can share one instance.
type Teams struct {
	mu    sync.RWMutex
	teams map[string]map[uint32]engine.Team
}

// NewTeams returns an empty Teams registry.
func NewTeams() *Teams {
	return &Teams{teams: make(map[string]map[uint32]engine.Team)}
}

// Register associates teamIndex with team for player. Later calls with the
// same (player, teamIndex) overwrite the prior registration.
func (t *Teams) Register(player string, teamIndex uint32, team engine.Team) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.teams[player] == nil {
		t.teams[player] = make(map[uint32]engine.Team)
	}
	t.teams[player][teamIndex] = team
}

// ResolveTeam implements engine.TeamRegistry.
func (t *Teams) ResolveTeam(player string, teamIndex uint32) (engine.Team, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	byIndex, ok := t.teams[player]
	if !ok {
		return engine.Team{}, fmt.Errorf("registry: no teams registered for player %q", player)
	}
	team, ok := byIndex[teamIndex]
	if !ok {
		return engine.Team{}, fmt.Errorf("registry: player %q has no team at index %d", player, teamIndex)
	}
	return team, nil
}

// Moves is an in-memory MoveManager: a lookup table of MoveRef/AbilityRef
// to their capability implementations, populated by whoever owns the
// concrete move/ability catalog (internal/sample, or a game-specific
// package built the same way).
type Moves struct {
	mu        sync.RWMutex
	moves     map[engine.MoveRef]engine.Move
	abilities map[engine.AbilityRef]engine.Ability
}

// NewMoves returns an empty Moves manager.
func NewMoves() *Moves {
	return &Moves{
		moves:     make(map[engine.MoveRef]engine.Move),
		abilities: make(map[engine.AbilityRef]engine.Ability),
	}
}

// RegisterMove adds move under ref, overwriting any prior registration.
func (m *Moves) RegisterMove(ref engine.MoveRef, move engine.Move) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves[ref] = move
}

// RegisterAbility adds ability under ref, overwriting any prior
// registration.
func (m *Moves) RegisterAbility(ref engine.AbilityRef, ability engine.Ability) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abilities[ref] = ability
}

// ResolveMove implements engine.MoveManager.
func (m *Moves) ResolveMove(ref engine.MoveRef) (engine.Move, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	move, ok := m.moves[ref]
	if !ok {
		return nil, fmt.Errorf("registry: unknown move ref %q", ref)
	}
	return move, nil
}

// ResolveAbility implements engine.MoveManager.
func (m *Moves) ResolveAbility(ref engine.AbilityRef) (engine.Ability, error) {
	if ref == "" {
		return nil, fmt.Errorf("registry: empty ability ref")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ability, ok := m.abilities[ref]
	if !ok {
		return nil, fmt.Errorf("registry: unknown ability ref %q", ref)
	}
	return ability, nil
}

// StaticMatchmaker is a Matchmaker that always pairs the same two
// pre-registered teams — enough for tests and the cmd/battlesim demo, where
// there is no real matchmaking queue to model.
type StaticMatchmaker struct {
	Teams       *Teams
	MoveManager engine.MoveManager
	TypeCalc    engine.TypeCalculator
	RNG         engine.Rng
	Ruleset     engine.Ruleset
	Hooks       []engine.Hook
	Sink        engine.EventSink
	P0TeamIndex uint32
	P1TeamIndex uint32
}

// NewBattleConfig implements engine.Matchmaker.
func (s *StaticMatchmaker) NewBattleConfig(p0, p1 string, pairHashNonce uint64) (engine.Config, error) {
	p0Team, err := s.Teams.ResolveTeam(p0, s.P0TeamIndex)
	if err != nil {
		return engine.Config{}, err
	}
	p1Team, err := s.Teams.ResolveTeam(p1, s.P1TeamIndex)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		P0:            p0,
		P1:            p1,
		P0Team:        p0Team,
		P1Team:        p1Team,
		RNG:           s.RNG,
		Ruleset:       s.Ruleset,
		MoveManager:   s.MoveManager,
		TypeCalc:      s.TypeCalc,
		Hooks:         s.Hooks,
		PairHashNonce: pairHashNonce,
		Sink:          s.Sink,
	}, nil
}
