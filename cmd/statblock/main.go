// Package main provides the statblock command. It loads catalog content and a
// character sheet, then prints every derived statistic as YAML.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/statblock/internal/config"
	"github.com/cory-johannsen/statblock/internal/game/catalog"
	"github.com/cory-johannsen/statblock/internal/game/check"
	"github.com/cory-johannsen/statblock/internal/game/dice"
	"github.com/cory-johannsen/statblock/internal/game/item"
	"github.com/cory-johannsen/statblock/internal/observability"
	"github.com/cory-johannsen/statblock/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and STATBLOCK_ environment")
	sheetPath := flag.String("sheet", "", "path to character sheet YAML")
	targetAC := flag.Int("vs-ac", 0, "when positive, roll one attack per weapon against this armor class")
	flag.Parse()

	if *sheetPath == "" {
		fmt.Fprintln(os.Stderr, "usage: statblock -sheet <file> [-config <file>] [-vs-ac <n>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	engine := scripting.NewEngine(cfg.Scripting.InstructionLimit, logger)
	defer engine.Close()
	if cfg.Content.LibraryDir != "" {
		if err := engine.LoadLibrary(cfg.Content.LibraryDir); err != nil {
			logger.Fatal("loading Lua library", zap.String("dir", cfg.Content.LibraryDir), zap.Error(err))
		}
	}

	registry := catalog.NewRegistry(engine, logger)
	if err := registry.Load(cfg.Content.Dir); err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}

	sheet, err := catalog.LoadSheet(*sheetPath)
	if err != nil {
		logger.Fatal("loading sheet", zap.String("path", *sheetPath), zap.Error(err))
	}

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	pricing := item.Pricing{
		WeaponCoefficient: cfg.Pricing.WeaponCoefficient,
		ArmorCoefficient:  cfg.Pricing.ArmorCoefficient,
		MasterworkWeapon:  cfg.Pricing.MasterworkWeapon,
		MasterworkArmor:   cfg.Pricing.MasterworkArmor,
	}
	sb, err := registry.Build(sheet, roller, pricing)
	if err != nil {
		logger.Fatal("building statblock", zap.String("sheet", sheet.Name), zap.Error(err))
	}

	summary, err := sb.Summarize()
	if err != nil {
		logger.Fatal("summarizing statblock", zap.String("sheet", sheet.Name), zap.Error(err))
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		logger.Fatal("encoding statblock", zap.Error(err))
	}
	if err := enc.Close(); err != nil {
		logger.Fatal("encoding statblock", zap.Error(err))
	}

	if *targetAC > 0 {
		resolver, err := check.NewResolver(roller, logger)
		if err != nil {
			logger.Fatal("creating resolver", zap.Error(err))
		}
		target := check.StatisticFunc(func() (int, error) { return *targetAC, nil })
		for _, w := range sb.Weapons {
			attack, ok := w.Attack()
			if !ok {
				continue
			}
			out, err := resolver.Attack(attack, target)
			if err != nil {
				logger.Fatal("rolling attack", zap.String("weapon", w.FullName()), zap.Error(err))
			}
			fmt.Printf("%s: %s\n", w.FullName(), out)
		}
	}

	logger.Info("statblock complete",
		zap.String("name", summary.Name),
		zap.Int("weapons", len(sb.Weapons)),
		zap.Int("armor", len(sb.Armor)),
		zap.Int("spells", len(sb.Spells)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
