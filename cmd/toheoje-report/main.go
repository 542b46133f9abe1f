package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"toheoje/internal/backend"
	"toheoje/internal/cli"
	"toheoje/internal/core"
	"toheoje/internal/dataset"
	"toheoje/internal/log"
	"toheoje/internal/report"
	"toheoje/internal/view"
)

func main() {
	district := flag.String("district", "", "district to detail, e.g. 강남구")
	mode := flag.String("view", string(view.ModeGrouped), "district table: grouped or list")
	limit := flag.Int("limit", 0, "rows of the new-records panel (default NEW_RECORDS_LIMIT)")
	width := flag.Int("width", 0, "output width in cells (default: terminal width)")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	// Logs go to stderr so the report can be piped.
	logger := cli.SetupLogger(cfg, os.Stderr).WithComponent(log.ComponentReport)

	if *district != "" && !core.IsDistrict(*district) {
		fmt.Fprintf(os.Stderr, "unknown district %q\n", *district)
		os.Exit(2)
	}
	if *limit <= 0 {
		*limit = cfg.NewRecordsLimit
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.LogError(context.Background(), "Invalid backend configuration", err, log.OpStartup, nil)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).Create(context.Background(), backendCfg)
	if err != nil {
		logger.LogError(context.Background(), "Failed to initialize data backend", err, log.OpStartup, nil)
		os.Exit(1)
	}
	defer result.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout)
	defer cancel()
	snap := dataset.New(logger).Load(ctx, result.Source)
	if snap.Err != nil {
		fmt.Fprintln(os.Stderr, "데이터를 불러오지 못했습니다:", snap.Err)
	}

	out := bufio.NewWriter(os.Stdout)
	rep := report.New(out, outputWidth(*width))

	d := view.NewDashboard(snap.Records)
	err = rep.Dashboard(d)
	if err == nil {
		err = rep.Panel(view.NewPanel(snap.Records, d.LatestCollected, *limit))
	}
	if err == nil && *district != "" {
		var st view.State
		st = st.Select(*district).WithMode(view.ParseMode(*mode))
		err = rep.District(view.NewDistrictView(snap.Records, st))
	}
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		logger.LogError(ctx, "Report rendering failed", err, log.OpRender, nil)
		os.Exit(1)
	}
}

// outputWidth prefers an explicit width, then the terminal's.
func outputWidth(explicit int) int {
	if explicit > 0 {
		return explicit
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return report.DefaultWidth
}
