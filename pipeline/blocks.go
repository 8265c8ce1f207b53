package pipeline

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"lightmto/cad"
	"lightmto/workspace"
)

// ExtractBlocks runs the CAD collaborator over every drawing in the
// workspace and writes blocks_output.csv. Failures are per-drawing: one
// stuck or corrupt drawing is logged and skipped, and the stage succeeds as
// long as at least one drawing produced occurrences.
func ExtractBlocks(ctx context.Context, ws *workspace.Workspace, extractor cad.Extractor, log *zap.Logger) Result {
	drawings, err := ws.ListDrawings()
	if err != nil {
		return failf(Internal, err, "list drawings")
	}
	if len(drawings) == 0 {
		return failf(InputMissing, nil, "no .dwg files found in %s", ws.DwgDir)
	}

	t := &workspace.Table{Headers: []string{"filename", "layer", "block"}}
	processed, failed := 0, 0
	for _, name := range drawings {
		occ, err := extractor.ExtractBlocks(ctx, filepath.Join(ws.DwgDir, name))
		if err != nil {
			failed++
			log.Warn("drawing extraction failed",
				zap.String("drawing", name), zap.Error(err))
			continue
		}
		for _, o := range occ {
			t.Rows = append(t.Rows, []string{o.Filename, o.Layer, o.Block})
		}
		processed++
	}

	if processed == 0 {
		return failf(AutomationTransient, nil,
			"block extraction produced no output (%d drawings failed)", failed)
	}

	if err := workspace.WriteTable(ws.BlocksOutputCSV(), t); err != nil {
		return failf(Internal, err, "write blocks_output")
	}

	if failed > 0 {
		return okf("extracted blocks from %d drawings (%d failed, see log)", processed, failed)
	}
	return okf("extracted blocks from %d drawings", processed)
}
