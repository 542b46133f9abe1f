// Command toheoje-import copies a land-contract JSON document into the SQLite
// database read by DATA_BACKEND=sqlite.
package main

import (
	"context"
	"flag"
	"os"

	"toheoje/internal/cli"
	"toheoje/internal/log"
	"toheoje/internal/source/file"
	"toheoje/internal/source/sqlite"
)

func main() {
	replace := flag.Bool("replace", true, "replace existing rows instead of appending")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, os.Stderr).WithComponent(log.ComponentStorage)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout)
	defer cancel()

	src := file.New(cfg.DataFile)
	if flag.NArg() > 0 {
		src = file.New(flag.Arg(0))
	}
	records, err := src.Load(ctx)
	if err != nil {
		logger.LogError(ctx, "Failed to read dataset", err, log.OpLoad, nil)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.LogError(ctx, "Failed to open SQLite store", err, log.OpMigrate, nil)
		os.Exit(1)
	}
	defer store.Close()

	write := store.Insert
	if *replace {
		write = store.Replace
	}
	if err := write(ctx, records); err != nil {
		logger.LogError(ctx, "Failed to import records", err, log.OpLoad,
			log.NewFields().WithDataset(src.Name(), len(records), ""))
		os.Exit(1)
	}
	logger.Info("Imported records", log.NewFields().WithDataset(src.Name(), len(records), "").ToSlice()...)
}
