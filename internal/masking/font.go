package masking

import (
	"log"
	"os"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// systemFontPaths is the ordered list of common platform font locations
// tried when no font path is configured.
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// resolveFace walks the font resolution ladder at the requested size:
// explicit configured path, then the platform list, then the built-in
// bitmap face. It never fails.
func (m *Masker) resolveFace(points float64) font.Face {
	if m.fontPath != "" {
		if face, err := gg.LoadFontFace(m.fontPath, points); err == nil {
			return face
		}
		log.Printf("masking.resolveFace: configured font %q unusable, trying platform fonts", m.fontPath)
	}
	for _, path := range systemFontPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if face, err := gg.LoadFontFace(path, points); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}
