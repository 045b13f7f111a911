// Command loadfacts imports local expert facts, one per line, from a PDF or
// text file into the configured fact store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/katakuxiko/askexperts/internal/config"
	"github.com/katakuxiko/askexperts/internal/logger"
	"github.com/katakuxiko/askexperts/internal/pdf"
	"github.com/katakuxiko/askexperts/internal/store"
)

func main() {
	file := flag.String("file", "", "PDF or text file with one fact per line")
	dryRun := flag.Bool("dry-run", false, "print the facts instead of storing them")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: loadfacts -file experts.pdf [-dry-run]")
		os.Exit(2)
	}

	_ = logger.Init("info")
	defer logger.Sync()

	txt, err := pdf.ReadText(*file)
	if err != nil {
		logger.Fatal("read input", zap.String("file", *file), zap.Error(err))
	}
	facts := pdf.FactLines(txt)
	if len(facts) == 0 {
		logger.Fatal("no facts found", zap.String("file", *file))
	}

	if *dryRun {
		for _, f := range facts {
			fmt.Println(f)
		}
		return
	}

	cfg, err := config.LoadFacts()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.Facts)
	if err != nil {
		logger.Fatal("fact store unavailable", zap.Error(err))
	}
	defer s.Close(ctx)

	saved, err := load(ctx, s, facts)
	logger.Info("facts loaded",
		zap.String("file", *file),
		zap.Int("facts_total", len(facts)),
		zap.Int("facts_saved", saved),
	)
	if err != nil {
		s.Close(ctx)
		logger.Fatal("load facts", zap.Error(err))
	}
}

// load adds every fact, logging and skipping failed inserts. It fails when
// nothing was stored.
func load(ctx context.Context, s store.FactStore, facts []string) (int, error) {
	saved := 0
	var lastErr error
	for _, f := range facts {
		if err := s.Add(ctx, f); err != nil {
			logger.Error("insert fact", zap.String("fact", f), zap.Error(err))
			lastErr = err
			continue
		}
		saved++
	}
	if saved == 0 && len(facts) > 0 {
		return 0, fmt.Errorf("none of %d facts were stored: %w", len(facts), lastErr)
	}
	return saved, nil
}
