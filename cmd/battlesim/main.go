// Command battlesim runs a scripted 1v1 battle between two CPU Deciders,
// wiring the registry, rngoracle, hooks and sample packages together the way
// a real caller (a matchmaker service, a test harness) would.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/monbattle/internal/cpu"
	"github.com/opd-ai/monbattle/internal/engine"
	"github.com/opd-ai/monbattle/internal/hooks"
	"github.com/opd-ai/monbattle/internal/registry"
	"github.com/opd-ai/monbattle/internal/rngoracle"
	"github.com/opd-ai/monbattle/internal/sample"
)

var (
	maxTurns   = flag.Int("max-turns", 50, "Maximum turns to simulate before giving up")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	p0Strategy = flag.String("p0-strategy", "aggressive", "Player 0 CPU strategy: aggressive, defensive, balanced")
	p1Strategy = flag.String("p1-strategy", "balanced", "Player 1 CPU strategy: aggressive, defensive, balanced")
	seed       = flag.Int64("seed", 1, "Oracle pepper / CPU rng seed")
)

func main() {
	flag.Parse()
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(); err != nil {
		logrus.WithField("error", err).Error("battle simulation failed")
		os.Exit(1)
	}
}

func run() error {
	moves := buildMoveCatalog()
	teams := registry.NewTeams()
	teams.Register("alice", 0, sampleTeam("alice"))
	teams.Register("bob", 0, sampleTeam("bob"))

	matchmaker := &registry.StaticMatchmaker{
		Teams:       teams,
		MoveManager: moves,
		RNG:         rngoracle.NewDeterministic(seedBytes(*seed)),
		Ruleset:     engine.DefaultRuleset(),
		Hooks:       []engine.Hook{hooks.NewLoggingHook(logrus.StandardLogger())},
		Sink:        engine.NewLogrusSink(logrus.StandardLogger()),
	}
	cfg, err := matchmaker.NewBattleConfig("alice", "bob", uint64(*seed))
	if err != nil {
		return fmt.Errorf("build battle config: %w", err)
	}
	b := engine.NewBattle(cfg, uint64(*seed))

	p0 := cpu.NewDecider(engine.Player0, cpu.Normal, cpu.Strategy(*p0Strategy), *seed)
	p1 := cpu.NewDecider(engine.Player1, cpu.Normal, cpu.Strategy(*p1Strategy), *seed+1)

	for turn := 0; turn < *maxTurns; turn++ {
		d0 := p0.Decide(b)
		d1 := p1.Decide(b)
		b.SetDecisions(&d0, &d1)
		if err := b.Execute(); err != nil {
			if err == engine.ErrBattleOver {
				break
			}
			return fmt.Errorf("execute turn %d: %w", turn, err)
		}
		fmt.Printf("turn %d: p0 hp=%d p1 hp=%d\n", turn,
			activeHP(b, engine.Player0), activeHP(b, engine.Player1))
		if b.Phase == engine.PhaseGameOver {
			break
		}
	}

	if b.State.Winner != nil {
		fmt.Printf("winner: player%d\n", *b.State.Winner)
	} else {
		fmt.Println("battle did not conclude within max-turns")
	}
	return nil
}

func activeHP(b *engine.Battle, player engine.PlayerIndex) int32 {
	mon, ok := b.ActiveMon(player)
	if !ok {
		return 0
	}
	return int32(mon.Stats.HP) + b.ActiveState(player).EffectiveHPDelta()
}

func buildMoveCatalog() *registry.Moves {
	moves := registry.NewMoves()
	moves.RegisterMove("tackle", sample.NewAttack("tackle", 10, 0, sample.TypeNormal, engine.MoveClassPhysical, 50, 100, 10, 5))
	moves.RegisterMove("water-jet", sample.NewAttack("water-jet", 15, 0, sample.TypeWater, engine.MoveClassSpecial, 60, 95, 10, 5))
	moves.RegisterMove("ember", sample.NewAttack("ember", 15, 0, sample.TypeFire, engine.MoveClassSpecial, 55, 95, 10, 5))
	moves.RegisterMove("vine-whip", sample.NewAttack("vine-whip", 15, 0, sample.TypeGrass, engine.MoveClassPhysical, 55, 95, 10, 5))
	moves.RegisterMove("burn-touch", sample.NewBurnInducer("burn-touch", 10, 80))
	moves.RegisterMove("lullaby", sample.NewSleepInducer("lullaby", 10, 75))
	return moves
}

func sampleTeam(owner string) engine.Team {
	moveset := [4]engine.MoveRef{"tackle", "water-jet", "burn-touch", "lullaby"}
	return engine.Team{Mons: []engine.Mon{
		{ID: owner + "-1", Stats: engine.MonStats{HP: 120, Attack: 70, Defense: 50, SpecialAttack: 65, SpecialDefense: 55, Speed: 60, Stamina: 40, Type1: sample.TypeWater}, Moves: moveset},
		{ID: owner + "-2", Stats: engine.MonStats{HP: 110, Attack: 75, Defense: 45, SpecialAttack: 70, SpecialDefense: 50, Speed: 55, Stamina: 40, Type1: sample.TypeGrass}, Moves: [4]engine.MoveRef{"tackle", "vine-whip", "burn-touch", "lullaby"}},
		{ID: owner + "-3", Stats: engine.MonStats{HP: 100, Attack: 60, Defense: 60, SpecialAttack: 80, SpecialDefense: 60, Speed: 65, Stamina: 40, Type1: sample.TypeFire}, Moves: [4]engine.MoveRef{"tackle", "ember", "burn-touch", "lullaby"}},
	}}
}

func seedBytes(seed int64) [32]byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(seed >> (8 * i))
	}
	return out
}
