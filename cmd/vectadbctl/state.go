package main

import (
	"fmt"

	vectadb "vectadb.dev/core"
	"vectadb.dev/core/embedding"
)

// cliState holds the flags shared by every subcommand and the lazily-built
// core they all operate on. Each process run gets one fresh, in-memory
// Core; there is no cross-invocation persistence, matching the CLI's role
// as local scaffolding rather than a long-running server.
type cliState struct {
	schemaPath string
	logLevel   string
	logFormat  string

	core *vectadb.Core
}

// init builds the core on first use. PersistentPreRunE runs once per
// process invocation in real usage, but a test driving several
// subcommands against one root command would otherwise rebuild (and so
// reset) the core before every one; guarding on s.core already being set
// makes repeated Execute calls behave like one continuous session.
func (s *cliState) init() error {
	if s.core != nil {
		return nil
	}
	cfg := defaultConfig(s)
	core, err := vectadb.New(cfg, embedding.NewRegistry(), nil)
	if err != nil {
		return fmt.Errorf("initialize core: %w", err)
	}
	s.core = core
	return nil
}
