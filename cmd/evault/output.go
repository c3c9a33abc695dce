package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dvid0316/evidence-vault/internal/config"
	"github.com/Dvid0316/evidence-vault/internal/store"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

// withStore opens the configured database for the duration of one command.
func withStore(cfg *config.Config, fn func(st *store.Store) error) error {
	if cfg == nil || cfg.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
