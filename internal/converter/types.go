package converter

import (
	"github.com/docforge/pdf2md/internal/markdown"
	"github.com/docforge/pdf2md/internal/ocr"
	"github.com/docforge/pdf2md/internal/splitter"
)

// ConvertRequest asks for a full PDF-to-Markdown conversion of one document.
type ConvertRequest struct {
	Path string
}

// ConvertResult reports what a conversion produced.
type ConvertResult struct {
	Path         string
	MarkdownPath string
	TOCPath      string
	SummaryPath  string
	Pages        int
	Parts        []splitter.Part
	TOC          []markdown.TOCEntry
	Summary      string
	Usage        *ocr.Usage
}

// SplitRequest asks for a PDF to be split into page-range parts without OCR.
type SplitRequest struct {
	Path string
}

// SplitResult reports the written parts.
type SplitResult struct {
	Path      string
	OutputDir string
	Parts     []splitter.Part
}

// TOCRequest asks for table-of-contents extraction from a Markdown file.
type TOCRequest struct {
	Path string
}

// TOCResult carries the ordered TOC entries.
type TOCResult struct {
	Path    string
	Entries []markdown.TOCEntry
}

// SummarizeRequest asks for a summary of a Markdown file.
type SummarizeRequest struct {
	Path      string
	MaxTokens int
}

// SummarizeResult carries the generated summary text.
type SummarizeResult struct {
	Path    string
	Summary string
}
