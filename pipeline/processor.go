package pipeline

import (
	"context"
	"os"

	"go.uber.org/zap"

	"lightmto/cad"
	"lightmto/config"
	"lightmto/workspace"
)

// Renderer writes a finished MTO table to a presentation file.
type Renderer func(*MtoTable, string) error

// Processor sequences the pipeline stages over one workspace. The CAD
// extractor and the renderers are injected so the transform chain stays
// testable without a CAD host or a spreadsheet diff.
type Processor struct {
	Ws        *workspace.Workspace
	Extractor cad.Extractor
	Layout    TableLayout
	PdfPath   string

	RenderWorkbook Renderer
	RenderReport   Renderer

	Log *zap.Logger
}

// ExecuteExtract parses the bill-of-material PDF into the catalog artifacts.
func (p *Processor) ExecuteExtract() Result {
	return ExtractCatalog(p.Ws, p.PdfPath, p.Layout, p.Log)
}

// ExecuteBlocks runs CAD block extraction over the drawing directory.
func (p *Processor) ExecuteBlocks(ctx context.Context) Result {
	return ExtractBlocks(ctx, p.Ws, p.Extractor, p.Log)
}

// ExecuteMto filters lighting blocks and aggregates material quantities.
func (p *Processor) ExecuteMto() Result {
	if res := FilterBlocks(p.Ws, p.Log); !res.Success() {
		return res
	}
	return GroupMaterials(p.Ws, p.Log)
}

// ExecuteFormat pivots the summed materials into the final MTO table and
// renders the configured outputs.
func (p *Processor) ExecuteFormat() Result {
	summed, err := LoadSummedMaterials(p.Ws)
	if err != nil {
		if os.IsNotExist(err) {
			return failf(InputMissing, err,
				"%s not found; run the MTO aggregation first", p.Ws.SummedMaterialsCSV())
		}
		return failf(Internal, err, "read summed_materials")
	}

	pct := config.LoadAllowance(p.Ws.AllowanceConfig(), p.Log)
	table := BuildMtoTable(summed, pct)
	p.Log.Info("built MTO table",
		zap.Int("materials", len(table.Rows)),
		zap.Int("wbs_codes", len(table.WbsCodes)),
		zap.Float64("allowance_pct", pct))

	if p.RenderWorkbook != nil {
		if err := p.RenderWorkbook(table, p.Ws.MtoWorkbook()); err != nil {
			return failf(Internal, err, "render workbook")
		}
	}
	if p.RenderReport != nil {
		if err := p.RenderReport(table, p.Ws.MtoReport()); err != nil {
			return failf(Internal, err, "render report")
		}
	}
	return okf("formatted %d materials with %s%% allowance to %s",
		len(table.Rows), FormatQuantity(pct), p.Ws.OutputDir)
}

// Run executes the whole pipeline in order, stopping at the first stage
// that fails.
func (p *Processor) Run(ctx context.Context) Result {
	for _, step := range []func() Result{
		p.ExecuteExtract,
		func() Result { return p.ExecuteBlocks(ctx) },
		p.ExecuteMto,
		p.ExecuteFormat,
	} {
		if res := step(); !res.Success() {
			return res
		}
	}
	return okf("pipeline complete; outputs in %s", p.Ws.OutputDir)
}
