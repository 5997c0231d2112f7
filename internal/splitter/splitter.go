// Package splitter partitions a source PDF into fixed-size page-range parts so
// each part can be submitted to the OCR service independently.
package splitter

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Part describes one contiguous page-range slice of a source PDF.
// StartPage is inclusive and EndPage exclusive, both 0-based.
type Part struct {
	Index     int
	Filename  string
	StartPage int
	EndPage   int
}

// PageCount returns the number of pages in the part.
func (p Part) PageCount() int {
	return p.EndPage - p.StartPage
}

// Splitter writes fixed-size page-range parts of a PDF to disk.
type Splitter struct {
	pagesPerPart int
	conf         *model.Configuration
}

// New creates a Splitter producing parts of at most pagesPerPart pages.
func New(pagesPerPart int) *Splitter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Splitter{
		pagesPerPart: pagesPerPart,
		conf:         conf,
	}
}

// Plan computes the ordered part ranges for a document of totalPages pages.
// The ranges tile [0, totalPages) with no gaps or overlaps and there are
// exactly ceil(totalPages/pagesPerPart) of them.
func Plan(totalPages, pagesPerPart int) []Part {
	if totalPages <= 0 || pagesPerPart <= 0 {
		return nil
	}

	totalParts := (totalPages + pagesPerPart - 1) / pagesPerPart
	parts := make([]Part, 0, totalParts)
	for p := 0; p < totalParts; p++ {
		start := p * pagesPerPart
		end := start + pagesPerPart
		if end > totalPages {
			end = totalPages
		}
		parts = append(parts, Part{Index: p, StartPage: start, EndPage: end})
	}
	return parts
}

// PartFilename returns the deterministic filename for a part of the given source stem.
func PartFilename(stem string, index int) string {
	return fmt.Sprintf("%s-P%d.pdf", stem, index)
}

// Split partitions the source PDF into parts of at most pagesPerPart pages and
// writes each part into outDir. It returns the ordered part metadata. A source
// that cannot be opened or parsed fails the whole call; partial output written
// before the failure is left in place.
func (s *Splitter) Split(ctx context.Context, pdfPath, outDir string) ([]Part, error) {
	totalPages, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read page count of %s: %w", pdfPath, err)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	parts := Plan(totalPages, s.pagesPerPart)

	log.Printf("Splitting %d pages into %d parts...", totalPages, len(parts))

	for i := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parts[i].Filename = PartFilename(stem, parts[i].Index)
		outPath := filepath.Join(outDir, parts[i].Filename)

		// pdfcpu page selections are 1-based and inclusive.
		selection := []string{fmt.Sprintf("%d-%d", parts[i].StartPage+1, parts[i].EndPage)}
		if err := api.TrimFile(pdfPath, outPath, selection, s.conf); err != nil {
			return nil, fmt.Errorf("failed to write part %d of %s: %w", parts[i].Index, pdfPath, err)
		}

		log.Printf("Created %s with %d pages (pages %d-%d)",
			parts[i].Filename, parts[i].PageCount(), parts[i].StartPage+1, parts[i].EndPage)
	}

	return parts, nil
}
