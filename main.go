package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lightmto/cad"
	"lightmto/config"
	"lightmto/export"
	"lightmto/pipeline"
	"lightmto/workspace"
)

func usage() {
	fmt.Fprintf(os.Stderr, `lightmto - electrical lighting material take-off pipeline

Usage:
  lightmto [flags] extract              parse the BOM PDF into catalog CSVs
  lightmto [flags] blocks               extract block placements from drawings
  lightmto [flags] mto                  filter and aggregate material quantities
  lightmto [flags] format               render the final MTO workbook and report
  lightmto [flags] run                  all of the above, in order
  lightmto [flags] wbs list             show the drawing to WBS mapping
  lightmto [flags] wbs set <dwg> <code> [description]
  lightmto [flags] wbs apply-unassigned <code> [description]
  lightmto [flags] allowance show       show the design allowance percentage
  lightmto [flags] allowance set <pct>  set the design allowance percentage

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var (
		baseDir    = flag.String("dir", ".", "workspace base directory")
		pdfPath    = flag.String("pdf", "", "BOM PDF path (default <dir>/pdf/ELECTRICAL_LIGHT_INSTALL_DETAILS.pdf)")
		cadCmd     = flag.String("cad-cmd", "accoreconsole", "CAD automation command")
		cadScript  = flag.String("cad-script", "", "block listing script (default <dir>/cad/listblocks.scr)")
		cadTimeout = flag.Duration("cad-timeout", cad.DefaultTimeout, "per-drawing extraction timeout")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	log := newLogger(*verbose).With(zap.String("run_id", uuid.NewString()))
	defer log.Sync()

	ws := workspace.New(*baseDir)
	if err := ws.EnsureDirs(); err != nil {
		log.Fatal("workspace setup failed", zap.Error(err))
	}

	if *pdfPath == "" {
		*pdfPath = filepath.Join(ws.PdfDir, "ELECTRICAL_LIGHT_INSTALL_DETAILS.pdf")
	}
	if *cadScript == "" {
		*cadScript = filepath.Join(ws.CadDir, "listblocks.scr")
	}

	proc := &pipeline.Processor{
		Ws: ws,
		Extractor: &cad.ScriptExtractor{
			Command:    *cadCmd,
			ScriptPath: *cadScript,
			ResultDir:  ws.CadDir,
			Timeout:    *cadTimeout,
			Log:        log,
		},
		Layout:         pipeline.DefaultTableLayout(),
		PdfPath:        *pdfPath,
		RenderWorkbook: export.RenderWorkbook,
		RenderReport:   export.RenderReport,
		Log:            log,
	}

	ctx := context.Background()
	args := flag.Args()

	var res pipeline.Result
	switch args[0] {
	case "extract":
		res = proc.ExecuteExtract()
	case "blocks":
		res = proc.ExecuteBlocks(ctx)
	case "mto":
		res = proc.ExecuteMto()
	case "format":
		res = proc.ExecuteFormat()
	case "run":
		res = proc.Run(ctx)
	case "wbs":
		runWbs(ws, args[1:], log)
		return
	case "allowance":
		runAllowance(ws, args[1:], log)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	fmt.Println(res.String())
	if !res.Success() {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	return log
}

// runWbs is the management surface for the drawing→WBS mapping. Opening it
// merges newly discovered drawings into the mapping before anything else.
func runWbs(ws *workspace.Workspace, args []string, log *zap.Logger) {
	drawings, err := ws.ListDrawings()
	if err != nil {
		fatal(err)
	}
	store, err := config.LoadWbs(ws.WbsMappingCSV(), drawings)
	if err != nil {
		fatal(err)
	}

	if len(args) < 1 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		if err := store.Save(); err != nil {
			fatal(err)
		}
		fmt.Printf("%-40s %-12s %s\n", "FILENAME", "WBS CODE", "DESCRIPTION")
		for _, e := range store.Entries {
			fmt.Printf("%-40s %-12s %s\n", e.Filename, e.Code, e.Description)
		}
	case "set":
		if len(args) < 3 {
			fatal(fmt.Errorf("usage: wbs set <dwg> <code> [description]"))
		}
		desc := ""
		if len(args) > 3 {
			desc = args[3]
		}
		if err := store.Set(args[1], args[2], desc); err != nil {
			fatal(err)
		}
		if err := store.Save(); err != nil {
			fatal(err)
		}
		log.Info("wbs entry updated", zap.String("drawing", args[1]), zap.String("code", args[2]))
	case "apply-unassigned":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: wbs apply-unassigned <code> [description]"))
		}
		desc := ""
		if len(args) > 2 {
			desc = args[2]
		}
		if err := store.ApplyToUnassigned(args[1], desc); err != nil {
			fatal(err)
		}
		if err := store.Save(); err != nil {
			fatal(err)
		}
		log.Info("wbs code applied to unassigned drawings", zap.String("code", args[1]))
	default:
		fatal(fmt.Errorf("unknown wbs subcommand %q", args[0]))
	}
}

func runAllowance(ws *workspace.Workspace, args []string, log *zap.Logger) {
	path := ws.AllowanceConfig()
	if len(args) < 1 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		fmt.Printf("design allowance: %s%%\n", pipeline.FormatQuantity(config.LoadAllowance(path, log)))
	case "set":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: allowance set <pct>"))
		}
		pct, err := config.SetAllowanceFromString(path, args[1])
		if err != nil {
			fatal(err)
		}
		fmt.Printf("design allowance set to %s%%\n", pipeline.FormatQuantity(pct))
	default:
		fatal(fmt.Errorf("unknown allowance subcommand %q", args[0]))
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
