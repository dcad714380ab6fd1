package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/dpr-registry/pkg/member"
	"github.com/hazyhaar/dpr-registry/pkg/store"
	"github.com/urfave/cli/v2"
)

const (
	verifySamples  = 5
	verifyFactions = 5
)

func verifyCommand(c *cli.Context) error {
	cfg, _, err := setup(c)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return printVerification(c.Context, st)
}

func printVerification(ctx context.Context, st *store.Store) error {
	return writeVerification(ctx, os.Stdout, st)
}

// writeVerification prints the member count, a few sample rows and the largest
// factions.
func writeVerification(ctx context.Context, w io.Writer, st *store.Store) error {
	total, err := st.CountMembers(ctx)
	if err != nil {
		return err
	}
	samples, err := st.SampleMembers(ctx, verifySamples)
	if err != nil {
		return err
	}
	factions, err := st.TopValues(ctx, member.ColFaction, verifyFactions)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "DATABASE VERIFICATION")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total members: %d\n", total)
	fmt.Fprintln(w, "\nSample rows:")
	for i, m := range samples {
		m.ApplyDefaults()
		fmt.Fprintf(w, "%d. %s - %s (%s)\n", i+1, m.Name, m.Faction, m.Party)
	}
	fmt.Fprintln(w, "\nMembers per faction:")
	for _, f := range factions {
		name := f.Name
		if member.IsBlank(name) {
			name = member.Placeholder(member.ColFaction)
		}
		fmt.Fprintf(w, "- %s: %d\n", name, f.Count)
	}
	fmt.Fprintln(w, rule)

	if last, err := st.LastRun(ctx); err == nil && last != nil {
		fmt.Fprintf(w, "Last import: %s (%s, %d imported, %d dropped)\n",
			last.Source, last.Status, last.RowsImported, last.RowsDropped)
	}
	return nil
}
