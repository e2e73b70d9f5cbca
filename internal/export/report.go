package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/regression"
	"github.com/KaramelBytes/edakit/internal/utils"
)

// SummaryFileName and WorkbookFileName are the fixed artifact names of a run.
const (
	SummaryFileName  = "summary.md"
	WorkbookFileName = "diagnostics.xlsx"
)

// RunOptions describes what WriteDiagnostics records alongside the charts.
type RunOptions struct {
	Input    string
	Target   string
	Features []string
	Workbook bool
}

// WriteDiagnostics persists a diagnostics report as a run under baseDir: one PNG
// per chart, summary.md, optionally the xlsx workbook, then manifest.json.
func WriteDiagnostics(rep *regression.DiagnosticReport, baseDir string, opt RunOptions) (*Run, error) {
	if rep == nil {
		return nil, fmt.Errorf("write diagnostics: nil report")
	}
	run := NewRun(baseDir, opt.Input)
	run.Target = opt.Target
	run.Features = opt.Features

	for _, c := range rep.Charts {
		png, err := c.PNG()
		if err != nil {
			return nil, err
		}
		if _, err := run.WriteFile(c.Name+".png", KindChart, png); err != nil {
			return nil, err
		}
	}
	if _, err := run.WriteFile(SummaryFileName, KindReport, []byte(rep.Markdown())); err != nil {
		return nil, err
	}
	if opt.Workbook {
		f, err := Workbook(rep)
		if err != nil {
			return nil, err
		}
		buf, err := f.WriteToBuffer()
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("render workbook: %w", err)
		}
		if _, err := run.WriteFile(WorkbookFileName, KindWorkbook, buf.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := run.Save(); err != nil {
		return nil, err
	}
	slog.Debug("diagnostics written", "run", run.ID, "dir", run.RootDir(), "artifacts", len(run.Artifacts))
	return run, nil
}

// WriteMarkdown writes a rendered report to path, creating parent directories.
func WriteMarkdown(path, content string) error {
	var b bytes.Buffer
	b.WriteString(content)
	if n := b.Len(); n == 0 || b.Bytes()[n-1] != '\n' {
		b.WriteByte('\n')
	}
	if err := utils.SafeWriteFile(filepath.Clean(path), b.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
