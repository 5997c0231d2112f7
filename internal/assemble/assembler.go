// Package assemble turns per-part OCR results into one coherent Markdown
// document: it writes decoded page images to disk, rewrites image references
// to part-disambiguated paths and concatenates parts in page order.
package assemble

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docforge/pdf2md/internal/ocr"
)

// ImagesDirName is the directory name used for extracted images, both on disk
// and in Markdown link targets.
const ImagesDirName = "images"

// pageFooterFormat is the literal appended after each page's Markdown. The
// page number is 1-based and absolute across all parts.
const pageFooterFormat = "\n\nPage %d\n\n---\n\n"

// Assembler accumulates per-part Markdown keyed by part index, so the final
// document is identical regardless of the order parts are added in.
type Assembler struct {
	imagesDir string // on-disk directory for decoded images
	stem      string // source document stem, roots image links in the final pass
	parts     map[int]string
}

// New creates an Assembler writing images below outputDir and rooting final
// image links under stem. The images directory is created eagerly.
func New(outputDir, stem string) (*Assembler, error) {
	imagesDir := filepath.Join(outputDir, ImagesDirName)
	if err := os.MkdirAll(imagesDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create images directory %s: %w", imagesDir, err)
	}

	return &Assembler{
		imagesDir: imagesDir,
		stem:      stem,
		parts:     make(map[int]string),
	}, nil
}

// PartImageName returns the on-disk filename for an OCR image id, embedding
// the part index so identical ids from different parts never collide.
// An id "img-7.png" processed for part 3 becomes "img-3.7.png".
func PartImageName(id string, partIndex int) string {
	prefix, rest, found := strings.Cut(id, "-")
	if !found {
		return fmt.Sprintf("img-%d.%s", partIndex, id)
	}
	return fmt.Sprintf("%s-%d.%s", prefix, partIndex, rest)
}

// AddPart extracts the Markdown of one OCR result, writes its images to disk
// and stores the part's text under partIndex. pageOffset is the part's first
// page number in the source document (0-based); footers print
// page.Index+pageOffset+1. A malformed image payload is logged and skipped,
// everything else fails the part.
func (a *Assembler) AddPart(partIndex, pageOffset int, result *ocr.Response) error {
	var sb strings.Builder
	var refs []string // old/new pairs for the reference rewrite pass

	for _, page := range result.Pages {
		for _, img := range page.Images {
			name := PartImageName(img.ID, partIndex)

			data, err := decodeImage(img.ImageBase64)
			if err != nil {
				log.Printf("skipping malformed image %s on page %d: %v", img.ID, page.Index, err)
				continue
			}

			imgPath := filepath.Join(a.imagesDir, name)
			if err := os.WriteFile(imgPath, data, 0o640); err != nil {
				return fmt.Errorf("failed to write image %s: %w", imgPath, err)
			}

			// Link targets first so they win over the bare-id rewrite.
			refs = append(refs,
				"("+img.ID+")", "("+ImagesDirName+"/"+name+")",
				img.ID, name,
			)
		}

		sb.WriteString(page.Markdown)
		fmt.Fprintf(&sb, pageFooterFormat, page.Index+pageOffset+1)
	}

	markdown := sb.String()
	if len(refs) > 0 {
		// Single templating pass over the part's text; full-id patterns avoid
		// the prefix collisions a blanket "img-" substitution would cause.
		markdown = strings.NewReplacer(refs...).Replace(markdown)
	}

	a.parts[partIndex] = markdown
	return nil
}

// Assemble concatenates all added parts in ascending part-index order and
// roots image link paths under the source document's output subfolder.
func (a *Assembler) Assemble() string {
	indices := make([]int, 0, len(a.parts))
	for idx := range a.parts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var sb strings.Builder
	for _, idx := range indices {
		sb.WriteString(a.parts[idx])
	}

	// The final document lives next to the output folder, so image links gain
	// the folder prefix: (images/... -> (<stem>/images/...
	return strings.ReplaceAll(sb.String(), "("+ImagesDirName+"/", "("+a.stem+"/"+ImagesDirName+"/")
}

// ImagesDir returns the on-disk directory decoded images are written to.
func (a *Assembler) ImagesDir() string {
	return a.imagesDir
}

// decodeImage decodes a base64 image payload, stripping a data-URI prefix if
// one is present.
func decodeImage(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if _, rest, found := strings.Cut(payload, ","); found {
			payload = rest
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, nil
}
