// Package converter orchestrates the full PDF-to-Markdown pipeline: preflight
// validation, splitting, per-part OCR, Markdown assembly and output writing.
package converter

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/docforge/pdf2md/internal/assemble"
	"github.com/docforge/pdf2md/internal/chat"
	"github.com/docforge/pdf2md/internal/config"
	"github.com/docforge/pdf2md/internal/markdown"
	"github.com/docforge/pdf2md/internal/ocr"
	"github.com/docforge/pdf2md/internal/splitter"
)

// Service runs document conversions. All collaborators are constructed once
// from the configuration and never mutated afterwards.
type Service struct {
	cfg        *config.Config
	validator  *Validator
	splitter   *splitter.Splitter
	ocrClient  *ocr.Client
	summarizer *chat.Summarizer
}

// NewService creates a conversion service from the loaded configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:       cfg,
		validator: NewValidator(cfg.MaxFileSize),
		splitter:  splitter.New(cfg.PagesPerPart),
		ocrClient: ocr.NewClient(cfg.OCREndpoint, cfg.APIKey, cfg.OCRModel, cfg.Timeout),
		summarizer: chat.NewSummarizer(
			chat.NewClient(cfg.ChatEndpoint, cfg.APIKey, cfg.ChatModel, cfg.Timeout)),
	}
}

// Convert runs the full pipeline for one source PDF. Any part's OCR failure
// aborts the document: no partial Markdown for the failed part is written, but
// part PDFs and images produced so far are preserved for inspection.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	if err := s.validator.ValidateFile(req.Path); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", req.Path, err)
	}

	outputBase := s.cfg.OutputDir
	if outputBase == "" {
		outputBase = filepath.Dir(req.Path)
	}
	stem := sourceStem(req.Path)
	partsDir := filepath.Join(outputBase, stem)

	parts, err := s.splitter.Split(ctx, req.Path, partsDir)
	if err != nil {
		return nil, err
	}

	asm, err := assemble.New(partsDir, stem)
	if err != nil {
		return nil, err
	}

	result := &ConvertResult{
		Path:  req.Path,
		Parts: parts,
	}

	for _, part := range parts {
		partPath := filepath.Join(partsDir, part.Filename)
		log.Printf("Processing: %s", partPath)

		ocrResult, err := s.ocrClient.Process(ctx, partPath)
		if err != nil {
			return nil, fmt.Errorf("OCR failed for part %d (%s): %w", part.Index, part.Filename, err)
		}

		if s.cfg.SaveRaw {
			rawPath := strings.TrimSuffix(partPath, ".pdf") + ".json"
			if err := os.WriteFile(rawPath, ocrResult.Raw, 0o640); err != nil {
				return nil, fmt.Errorf("failed to save raw OCR response %s: %w", rawPath, err)
			}
		}

		if err := asm.AddPart(part.Index, part.StartPage, ocrResult); err != nil {
			return nil, fmt.Errorf("failed to assemble part %d (%s): %w", part.Index, part.Filename, err)
		}

		result.Pages += len(ocrResult.Pages)
		accumulateUsage(result, ocrResult)

		log.Printf("OCR completed successfully for part: %s", part.Filename)
	}

	content := asm.Assemble()

	result.MarkdownPath = filepath.Join(outputBase, stem+".md")
	if err := os.WriteFile(result.MarkdownPath, []byte(content), 0o640); err != nil {
		return nil, fmt.Errorf("failed to write markdown %s: %w", result.MarkdownPath, err)
	}
	log.Printf("Markdown saved to: %s", result.MarkdownPath)

	result.TOC = markdown.ExtractTOC(content)
	if s.cfg.WithTOC {
		result.TOCPath = filepath.Join(outputBase, stem+"_toc.md")
		if err := os.WriteFile(result.TOCPath, []byte(markdown.RenderTOC(result.TOC)), 0o640); err != nil {
			return nil, fmt.Errorf("failed to write table of contents %s: %w", result.TOCPath, err)
		}
		log.Printf("Table of contents saved to: %s", result.TOCPath)
	}

	if s.cfg.WithSummary {
		summary, err := s.summarizer.Summarize(ctx, content, s.cfg.SummaryTokens)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
		result.SummaryPath = filepath.Join(outputBase, stem+"_summary.md")
		body := "# Document Summary\n\n" + summary
		if err := os.WriteFile(result.SummaryPath, []byte(body), 0o640); err != nil {
			return nil, fmt.Errorf("failed to write summary %s: %w", result.SummaryPath, err)
		}
		log.Printf("Summary saved to: %s", result.SummaryPath)
	}

	return result, nil
}

// Split splits a document into part PDFs without running OCR.
func (s *Service) Split(ctx context.Context, req SplitRequest) (*SplitResult, error) {
	if err := s.validator.ValidateFile(req.Path); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", req.Path, err)
	}

	outputBase := s.cfg.OutputDir
	if outputBase == "" {
		outputBase = filepath.Dir(req.Path)
	}
	partsDir := filepath.Join(outputBase, sourceStem(req.Path))

	parts, err := s.splitter.Split(ctx, req.Path, partsDir)
	if err != nil {
		return nil, err
	}

	return &SplitResult{
		Path:      req.Path,
		OutputDir: partsDir,
		Parts:     parts,
	}, nil
}

// ExtractTOC extracts the table of contents from a Markdown file.
func (s *Service) ExtractTOC(req TOCRequest) (*TOCResult, error) {
	content, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown %s: %w", req.Path, err)
	}

	return &TOCResult{
		Path:    req.Path,
		Entries: markdown.ExtractTOC(string(content)),
	}, nil
}

// Summarize generates a summary for a Markdown file.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	content, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown %s: %w", req.Path, err)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.cfg.SummaryTokens
	}

	summary, err := s.summarizer.Summarize(ctx, string(content), maxTokens)
	if err != nil {
		return nil, err
	}

	return &SummarizeResult{
		Path:    req.Path,
		Summary: summary,
	}, nil
}

// IsValidPDF reports whether the file passes preflight validation.
func (s *Service) IsValidPDF(path string) bool {
	return s.validator.IsValidPDF(path)
}

// sourceStem returns the filename without directory or extension.
func sourceStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// accumulateUsage folds a part's usage reporting into the document result and
// logs it at debug granularity.
func accumulateUsage(result *ConvertResult, resp *ocr.Response) {
	if resp.Usage != nil {
		if result.Usage == nil {
			result.Usage = &ocr.Usage{}
		}
		result.Usage.PromptTokens += resp.Usage.PromptTokens
		result.Usage.CompletionTokens += resp.Usage.CompletionTokens
		result.Usage.TotalTokens += resp.Usage.TotalTokens
	}
	if resp.UsageInfo != nil {
		log.Printf("usage: %d pages processed", resp.UsageInfo.PagesProcessed)
	}
}
