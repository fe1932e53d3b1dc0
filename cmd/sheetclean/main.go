// Command sheetclean cleans one spreadsheet file from the command line and
// writes the load-ready, comparison, quarantine and type report artifacts.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/config"
	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/ingest"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sheetclean:", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("sheetclean", flag.ContinueOnError)
	in := fs.String("in", "", "input file (.csv, .tsv, .txt, .xlsx, .xlsm, .json)")
	sheet := fs.String("sheet", "", "workbook sheet name (default: first sheet)")
	threshold := fs.Float64("threshold", 0, "minimum parse ratio in [0, 1] (default: CLEAN_DEFAULT_THRESHOLD)")
	out := fs.String("out", ".", "output directory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("no file provided: -in is required")
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	thresholdSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" {
			thresholdSet = true
		}
	})
	if !thresholdSet {
		*threshold = cfg.Cleaning.DefaultThreshold
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := ingest.Read(*in, f, ingest.Options{Sheet: *sheet})
	if err != nil {
		return err
	}

	service, err := core.NewService(nil, cfg)
	if err != nil {
		return err
	}
	defer service.Shutdown(context.Background())

	job, err := service.Clean(ctx, filepath.Base(*in), raw, *threshold)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
	for _, artifact := range export.Artifacts {
		path := filepath.Join(*out, base+"-"+artifact)
		if err := writeArtifact(path, artifact, job.Result); err != nil {
			return err
		}
		slog.Info("wrote artifact", "path", path)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(job.Summary())
}

func writeArtifact(path, artifact string, res *core.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(f, artifact, res)
}
