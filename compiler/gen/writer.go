package gen

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	FormatTime     time.Duration
}

// Source renders and formats the builder package of t without writing it.
func (g *Generator) Source(t *Type) ([]byte, error) {
	src, _, err := format(filepath.Join(g.outDir, t.File()), t, g.GenFile(t))
	return src, err
}

// writeFile formats f and writes it to the package directory of t.
func (g *Generator) writeFile(t *Type, f *jen.File) error {
	fullPath := filepath.Join(g.outDir, t.File())
	formatted, took, err := format(fullPath, t, f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError(t.Name, fullPath, "create directory", err)
	}
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return NewGenerationError(t.Name, fullPath, "write", err)
	}

	g.mu.Lock()
	g.metrics.FilesGenerated++
	g.metrics.TotalBytes += int64(len(formatted))
	g.metrics.FormatTime += took
	g.mu.Unlock()

	slog.Debug("wrote builder package", "type", t.Name, "path", fullPath, "bytes", len(formatted))
	return nil
}

func format(fullPath string, t *Type, f *jen.File) ([]byte, time.Duration, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, 0, NewGenerationError(t.Name, fullPath, "render", err)
	}
	start := time.Now()
	formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
	if err != nil {
		// Leave the unformatted source next to the target for debugging.
		debugPath := fullPath + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return nil, 0, NewGenerationError(t.Name, fullPath, "format (unformatted written to "+debugPath+")", err)
	}
	return formatted, time.Since(start), nil
}
