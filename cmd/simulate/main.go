package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emberquest/combat-engine-go/internal/combat"
	"github.com/emberquest/combat-engine-go/internal/config"
	"github.com/emberquest/combat-engine-go/internal/engine"
	"github.com/emberquest/combat-engine-go/internal/repository"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting combat simulation",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	store := repository.NewMemoryStore(logger)
	system := engine.NewSystem(engine.StoreRepositories(store), engine.Options{
		Defaults: engine.StatDefaults{
			Accuracy: cfg.Engine.DefaultAccuracy,
			Evasion:  cfg.Engine.DefaultEvasion,
		},
		Thresholds: engine.AIThresholds{
			DefensiveDefend: cfg.AI.Defensive.DefendThreshold,
			BalancedDefend:  cfg.AI.Balanced.DefendThreshold,
			BalancedFlee:    cfg.AI.Balanced.FleeThreshold,
		},
		Logger: logger,
	})

	if err := seedCatalogue(system); err != nil {
		logger.Fatal("failed to seed attack catalogue", zap.Error(err))
	}

	combatID, err := buildEncounter(system, cfg)
	if err != nil {
		logger.Fatal("failed to build encounter", zap.Error(err))
	}

	if !system.StartCombat(combatID) {
		logger.Fatal("failed to start combat", zap.String("combat_id", combatID))
	}

	runSimulation(system, cfg, combatID, logger)
}

func seedCatalogue(system *engine.System) error {
	attacks := []engine.AttackParams{
		{
			Name:       "Sword Slash",
			Type:       combat.AttackMelee,
			DamageType: combat.DamagePhysical,
			BaseDamage: 12,
		},
		{
			Name:          "Fireball",
			Type:          combat.AttackMagic,
			DamageType:    combat.DamageFire,
			BaseDamage:    18,
			ManaCost:      10,
			Inflicts:      []combat.EffectKind{combat.EffectBurning},
			CriticalBonus: 0.05,
		},
		{
			Name:       "Ice Lance",
			Type:       combat.AttackMagic,
			DamageType: combat.DamageIce,
			BaseDamage: 14,
			ManaCost:   8,
			Inflicts:   []combat.EffectKind{combat.EffectSlowed},
		},
		{
			Name:       "Crushing Blow",
			Type:       combat.AttackMelee,
			DamageType: combat.DamagePhysical,
			BaseDamage: 20,
			ManaCost:   6,
			Inflicts:   []combat.EffectKind{combat.EffectStunned},
		},
	}
	for _, p := range attacks {
		if _, err := system.CreateAttack(p); err != nil {
			return err
		}
	}
	return nil
}

func buildEncounter(system *engine.System, cfg *config.Config) (string, error) {
	c, err := system.CreateCombat(engine.CombatParams{
		Name:     "Skirmish at the Old Mill",
		Location: "riverside",
	})
	if err != nil {
		return "", err
	}

	combatants := []engine.CombatantParams{
		{
			Name: "Aldric", Team: "heroes",
			MaxHealth: 60, MaxMana: 30,
			AttackPower: 8, Defense: 6, Speed: 14,
			CriticalChance: 0.1, CriticalMultiplier: 1.5,
			Archetype: combat.ArchetypeAggressive, Controller: combat.ControllerAI,
		},
		{
			Name: "Mira", Team: "heroes",
			MaxHealth: 45, MaxMana: 50,
			AttackPower: 4, MagicPower: 12, Defense: 3, MagicResistance: 8, Speed: 18,
			CriticalChance: 0.15, CriticalMultiplier: 2.0,
			Archetype: combat.ArchetypeBalanced, Controller: combat.ControllerAI,
		},
		{
			Name: "Gorek", Team: "raiders",
			MaxHealth: 70, MaxMana: 20,
			AttackPower: 10, Defense: 8, Speed: 9,
			CriticalChance: 0.05, CriticalMultiplier: 1.5,
			Archetype: combat.ArchetypeAggressive, Controller: combat.ControllerAI,
		},
		{
			Name: "Sly", Team: "raiders",
			MaxHealth: 40, MaxMana: 25,
			AttackPower: 6, Defense: 4, Speed: 20, Evasion: 25,
			CriticalChance: 0.2, CriticalMultiplier: 1.8,
			Archetype: combat.ArchetypeDefensive, Controller: combat.ControllerAI,
		},
	}
	if cfg.Engine.MaxCombatants > 0 && len(combatants) > cfg.Engine.MaxCombatants {
		combatants = combatants[:cfg.Engine.MaxCombatants]
	}
	for _, p := range combatants {
		if _, err := system.AddCombatant(c.ID, p); err != nil {
			return "", err
		}
	}
	return c.ID, nil
}

func runSimulation(system *engine.System, cfg *config.Config, combatID string, logger *zap.Logger) {
	for {
		view, err := system.CombatStatus(combatID)
		if err != nil {
			logger.Fatal("failed to read combat status", zap.Error(err))
		}
		state := combat.State(view.State)
		if state.Terminal() {
			break
		}
		if cfg.Engine.MaxRounds > 0 && view.Round > cfg.Engine.MaxRounds {
			logger.Warn("round limit reached, forcing a draw",
				zap.Int("max_rounds", cfg.Engine.MaxRounds),
			)
			system.EndCombat(combatID, combat.StateDraw)
			break
		}

		results, err := system.ExecuteAITurns(combatID)
		if err != nil {
			logger.Fatal("simulation error", zap.Error(err))
		}
		if len(results) == 0 {
			// Every side is AI-controlled, so an empty batch means the
			// encounter can no longer progress.
			logger.Warn("no actions resolved, stopping")
			break
		}
	}

	history, err := system.History(combatID)
	if err != nil {
		logger.Fatal("failed to read history", zap.Error(err))
	}
	for _, entry := range history {
		fmt.Printf("[round %2d] %s\n", entry.Round, entry.Result)
	}

	view, err := system.CombatStatus(combatID)
	if err != nil {
		logger.Fatal("failed to read combat status", zap.Error(err))
	}
	fmt.Printf("\nresult: %s after %d rounds\n", view.State, view.Round)
	for _, cb := range view.Combatants {
		fmt.Printf("  %-8s %-8s hp %d/%d\n", cb.Name, cb.Team, cb.Health, cb.MaxHealth)
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
