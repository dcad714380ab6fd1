package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/importer"
	"github.com/hazyhaar/dpr-registry/pkg/store"
	"github.com/urfave/cli/v2"
)

func importCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	source := c.String("source")
	if source == "" {
		source = cfg.Source
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	im := importer.New(st,
		importer.WithLogger(logger),
		importer.WithFormat(importer.Format{
			Encoding:  cfg.SourceEncoding,
			Delimiter: cfg.SourceDelimiter,
		}),
	)

	fmt.Printf("Importing %s into %s...\n", source, cfg.DBPath)
	rep, err := im.Run(ctx, source)
	if err != nil {
		return cli.Exit(fmt.Sprintf("import failed: %v", err), 1)
	}
	fmt.Printf("Read %d rows, imported %d, dropped %d\n", rep.RowsRead, rep.RowsImported, len(rep.Dropped))
	for _, d := range rep.Dropped {
		fmt.Fprintf(os.Stderr, "  row %d (%q): %s\n", d.Row, d.Value, d.Reason)
	}

	if c.Bool("verify") {
		return printVerification(ctx, st)
	}
	return nil
}
