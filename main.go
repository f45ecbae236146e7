package main

import (
	"errors"
	"fmt"
	"os"

	"cells/config"
	"cells/grid"
	"cells/ui"
)

func gridInit(cfg *config.Config) (*grid.Grid, error) {
	if cfg.InputFile != "" {
		return grid.Load(cfg.InputFile)
	}

	return grid.New(cfg.ChunkRows, cfg.ChunkCols)
}

func graphicMode(g *grid.Grid, cfg *config.Config) error {
	u, err := ui.New(cfg)
	if err != nil {
		return err
	}
	defer u.Close()

	if err := u.Prepare(); err != nil {
		// Prepare may have entered raw mode before failing.
		_ = u.Finish()
		return err
	}

	step := 0
	status := ui.StatusContinue

	var loopErr error
	for status == ui.StatusContinue && loopErr == nil {
		status, loopErr = u.Loop(g, cfg, &step)
	}

	// The terminal must be handed back even when the loop failed.
	if err := u.Finish(); err != nil && loopErr == nil {
		loopErr = err
	}

	return loopErr
}

func silentMode(g *grid.Grid, cfg *config.Config) error {
	for step := 0; step < cfg.Steps; step++ {
		var err error
		if cfg.UseTorus {
			err = g.UpdateToroidal()
		} else {
			err = g.Update()
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func run(args []string) error {
	cfg, err := config.New(args)
	if err != nil {
		return err
	}

	g, err := gridInit(cfg)
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case config.ModeSilent:
		err = silentMode(g, cfg)
	case config.ModeGraphic:
		err = graphicMode(g, cfg)
	}
	if err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		return g.Save(cfg.OutputFile)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "cells: %v\n", err)
		os.Exit(1)
	}
}
