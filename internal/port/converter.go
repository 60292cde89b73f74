package port

import "context"

// PageConverter abstracts the PDF/image codec collaborator.
type PageConverter interface {
	// PDFToImages renders every page of a PDF to a PNG image in outDir,
	// named <stem>_pageN.png, and returns the paths in page order.
	PDFToImages(ctx context.Context, pdfPath, outDir, stem string) ([]string, error)
	// ImagesToPDF composes page images into a single multi-page PDF.
	ImagesToPDF(ctx context.Context, imagePaths []string, pdfPath string) error
}
