// Package masking rasterizes redaction overlays onto page images:
// opaque boxes over every entity's location plus adaptively sized,
// centered replacement text.
package masking

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"sort"

	"git.sr.ht/~sbinet/gg"

	"privasee/internal/config"
	"privasee/internal/domain"
)

// padding in pixels added on every side of a mask rectangle.
const padding = 2

// minFontSize is the smallest label size drawn, in pixels.
const minFontSize = 8

// Masker draws redaction boxes and replacement labels on page images.
type Masker struct {
	fontPath    string
	fillColor   color.Color
	borderColor color.Color
	textColor   color.Color
}

// New creates a Masker with the default white-fill / gray-border /
// black-text palette.
func New(cfg *config.MaskConfig) *Masker {
	return &Masker{
		fontPath:    cfg.FontPath,
		fillColor:   color.White,
		borderColor: color.RGBA{R: 200, G: 200, B: 200, A: 255},
		textColor:   color.Black,
	}
}

// ApplyMasks draws all entities onto a copy of img and returns it. Boxes
// are painted largest-area first so that smaller boxes repaint over any
// overlap. Degenerate boxes are skipped, never fatal.
func (m *Masker) ApplyMasks(img image.Image, entities []domain.Entity) image.Image {
	dc := gg.NewContextForImage(img)
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	sorted := make([]domain.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BoundingBox.Area() > sorted[j].BoundingBox.Area()
	})

	for i := range sorted {
		e := &sorted[i]
		x, y, w, h := PixelRect(e.BoundingBox, width, height)
		if w <= 0 || h <= 0 {
			log.Printf("masking.ApplyMasks: skipping degenerate bounding box %v for %q", e.BoundingBox, e.Category)
			continue
		}

		dc.SetColor(m.fillColor)
		dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
		dc.Fill()

		dc.SetColor(m.borderColor)
		dc.SetLineWidth(1)
		dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
		dc.Stroke()

		if e.ReplacementText != domain.BlackOutSentinel && e.ReplacementText != "" {
			m.drawLabel(dc, e.ReplacementText, x, y, w, h)
		}
	}

	return dc.Image()
}

// ApplyMasksFile reads a PNG page image, masks it, and writes the result.
func (m *Masker) ApplyMasksFile(inputPath string, entities []domain.Entity, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening page image: %w", err)
	}
	img, err := png.Decode(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("decoding page image %s: %w", inputPath, err)
	}

	masked := m.ApplyMasks(img, entities)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating masked image: %w", err)
	}
	defer func() { _ = out.Close() }()
	if err := png.Encode(out, masked); err != nil {
		return fmt.Errorf("encoding masked image: %w", err)
	}
	return nil
}

// drawLabel renders text centered in the box. The font starts at 70% of
// the box height; if the rendered width exceeds 95% of the box width it is
// re-fit at 80% of the original size.
func (m *Masker) drawLabel(dc *gg.Context, text string, x, y, w, h int) {
	size := float64(h) * 0.7
	if size < minFontSize {
		size = minFontSize
	}

	dc.SetFontFace(m.resolveFace(size))
	textWidth, _ := dc.MeasureString(text)
	if textWidth > float64(w)*0.95 {
		refit := size * 0.8
		if refit < minFontSize {
			refit = minFontSize
		}
		dc.SetFontFace(m.resolveFace(refit))
	}

	dc.SetColor(m.textColor)
	dc.DrawStringAnchored(text, float64(x)+float64(w)/2, float64(y)+float64(h)/2, 0.5, 0.5)
}

// PixelRect converts a normalized bounding box to a padded, clamped pixel
// rectangle on a page of the given dimensions. A non-positive width or
// height means the box is unusable.
func PixelRect(b domain.BoundingBox, imgWidth, imgHeight int) (x, y, w, h int) {
	x = int(b[0] * float64(imgWidth))
	y = int(b[1] * float64(imgHeight))
	w = int(b[2] * float64(imgWidth))
	h = int(b[3] * float64(imgHeight))

	x = max(0, x-padding)
	y = max(0, y-padding)
	w = min(imgWidth-x, w+2*padding)
	h = min(imgHeight-y, h+2*padding)
	return x, y, w, h
}
