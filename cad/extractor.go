// Package cad drives the external CAD automation that enumerates block
// placements. The pipeline only depends on the Extractor capability; the
// scripted implementation shells out to the site's CAD automation command.
package cad

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Occurrence is one placed block instance inside one drawing.
type Occurrence struct {
	Filename string
	Layer    string
	Block    string
}

// Extractor yields the block occurrences of a single drawing. A call blocks
// until the drawing has been opened, scanned, and closed by the CAD host.
type Extractor interface {
	ExtractBlocks(ctx context.Context, drawingPath string) ([]Occurrence, error)
}

// ScriptExtractor runs an external automation command per drawing. The
// command receives the drawing path and the path of a result file it must
// write, one "handle;layer;block" line per placed block.
type ScriptExtractor struct {
	// Command is the automation executable (a wrapper around the CAD
	// host's scripting interface).
	Command string
	// ScriptPath is the block-listing script passed to the command.
	ScriptPath string
	// ResultDir holds the per-drawing result files.
	ResultDir string
	// Timeout bounds one drawing's extraction. The CAD host can hang on a
	// modal dialog; when the deadline passes the drawing is abandoned and
	// the batch moves on.
	Timeout time.Duration

	Log *zap.Logger
}

// DefaultTimeout bounds a single drawing extraction.
const DefaultTimeout = 2 * time.Minute

// ExtractBlocks opens one drawing in the CAD host, runs the listing script,
// and parses the result file.
func (e *ScriptExtractor) ExtractBlocks(ctx context.Context, drawingPath string) ([]Occurrence, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultPath := filepath.Join(e.ResultDir, "blocks_result.txt")
	os.Remove(resultPath)

	cmd := exec.CommandContext(ctx, e.Command, "-script", e.ScriptPath, "-out", resultPath, drawingPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("extraction timed out after %s", timeout)
		}
		return nil, fmt.Errorf("automation command failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	occ, err := ParseResultFile(resultPath, filepath.Base(drawingPath))
	if err != nil {
		return nil, err
	}
	if e.Log != nil {
		e.Log.Debug("drawing scanned",
			zap.String("drawing", filepath.Base(drawingPath)),
			zap.Int("blocks", len(occ)))
	}
	return occ, nil
}

// ParseResultFile reads an automation result file. Each useful line has at
// least three ";"-separated fields: entity handle, layer, block name. Short
// lines are ignored, matching the tolerance of the listing script's output.
func ParseResultFile(path, drawingName string) ([]Occurrence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("no result file for %s: %w", drawingName, err)
	}
	defer f.Close()

	var occ []Occurrence
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), ";")
		if len(parts) < 3 {
			continue
		}
		occ = append(occ, Occurrence{
			Filename: drawingName,
			Layer:    strings.TrimSpace(parts[1]),
			Block:    strings.TrimSpace(parts[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read result file for %s: %w", drawingName, err)
	}
	return occ, nil
}
