// Package pdfconv converts between PDF documents and per-page raster
// images. Rasterization shells out to poppler's pdftoppm; composition
// writes a minimal image-per-page PDF directly.
package pdfconv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"privasee/internal/config"
	"privasee/internal/port"
)

const defaultDPI = 300

// Converter implements port.PageConverter using poppler for rasterization.
type Converter struct {
	dpi    int
	binary string
}

// New creates a converter from PDF settings.
func New(cfg *config.PDFConfig) *Converter {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return &Converter{dpi: dpi, binary: "pdftoppm"}
}

// PDFToImages renders every page of pdfPath to PNG files in outDir,
// named <stem>_pageN.png, and returns the paths in page order.
func (c *Converter) PDFToImages(ctx context.Context, pdfPath, outDir, stem string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}

	prefix := filepath.Join(outDir, stem)
	cmd := exec.CommandContext(ctx, c.binary,
		"-r", strconv.Itoa(c.dpi),
		"-png",
		pdfPath,
		prefix,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rendering %s: %w: %s", filepath.Base(pdfPath), err, strings.TrimSpace(stderr.String()))
	}

	// pdftoppm names output <prefix>-N.png, zero-padding N to the width
	// of the last page number. Collect, order numerically and rename to
	// the stable <stem>_pageN.png form.
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing rendered pages: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("rendering %s: no pages produced", filepath.Base(pdfPath))
	}

	type renderedPage struct {
		path string
		num  int
	}
	pages := make([]renderedPage, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".png")
		numStr := base[strings.LastIndex(base, "-")+1:]
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		pages = append(pages, renderedPage{path: m, num: num})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })

	paths := make([]string, 0, len(pages))
	for i, p := range pages {
		dst := filepath.Join(outDir, fmt.Sprintf("%s_page%d.png", stem, i+1))
		if err := os.Rename(p.path, dst); err != nil {
			return nil, fmt.Errorf("renaming page %d: %w", i+1, err)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

var _ port.PageConverter = (*Converter)(nil)
