// Package mcp exposes the conversion pipeline as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docforge/pdf2md/internal/config"
	"github.com/docforge/pdf2md/internal/converter"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *converter.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *converter.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pdfToMarkdownTool := mcp.NewTool(
		"pdf_to_markdown",
		mcp.WithDescription("Convert a PDF document to Markdown with extracted images using the configured OCR service"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfToMarkdownTool, s.handlePDFToMarkdown)

	pdfSplitTool := mcp.NewTool(
		"pdf_split",
		mcp.WithDescription("Split a PDF into fixed-size page-range parts without running OCR"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pdfSplitTool, s.handlePDFSplit)

	markdownTOCTool := mcp.NewTool(
		"markdown_toc",
		mcp.WithDescription("Extract a table of contents from a Markdown file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the Markdown file"),
		),
	)
	s.mcpServer.AddTool(markdownTOCTool, s.handleMarkdownTOC)

	markdownSummaryTool := mcp.NewTool(
		"markdown_summary",
		mcp.WithDescription("Generate a natural-language summary of a Markdown file via the chat-completion service"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the Markdown file"),
		),
		mcp.WithNumber("max_tokens",
			mcp.Description("Maximum tokens for the generated summary"),
		),
	)
	s.mcpServer.AddTool(markdownSummaryTool, s.handleMarkdownSummary)

	converterInfoTool := mcp.NewTool(
		"converter_info",
		mcp.WithDescription("Get converter configuration, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(converterInfoTool, s.handleConverterInfo)
}

// Handler functions
func (s *Server) handlePDFToMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Convert(ctx, converter.ConvertRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatConvertResult(result)), nil
}

func (s *Server) handlePDFSplit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Split(ctx, converter.SplitRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Split %s into %d part(s) in %s\n", result.Path, len(result.Parts), result.OutputDir)
	for _, part := range result.Parts {
		responseText += fmt.Sprintf("%d. %s (pages %d-%d)\n",
			part.Index+1, part.Filename, part.StartPage+1, part.EndPage)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleMarkdownTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractTOC(converter.TOCRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(result.Entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No headings found in %s", result.Path)), nil
	}

	responseText := fmt.Sprintf("Table of contents for %s (%d entries):\n", result.Path, len(result.Entries))
	for _, entry := range result.Entries {
		responseText += fmt.Sprintf("level %d, line %d: %s\n", entry.Level, entry.Line, entry.Title)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleMarkdownSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxTokens := 0
	if v, ok := request.GetArguments()["max_tokens"].(float64); ok {
		maxTokens = int(v)
	}

	result, err := s.service.Summarize(ctx, converter.SummarizeRequest{Path: path, MaxTokens: maxTokens})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Summary), nil
}

func (s *Server) handleConverterInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - PDF to Markdown converter\n\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("OCR endpoint: %s\n", s.config.OCREndpoint)
	text += fmt.Sprintf("OCR model: %s\n", s.config.OCRModel)
	text += fmt.Sprintf("Chat model: %s\n", s.config.ChatModel)
	text += fmt.Sprintf("Pages per part: %d\n", s.config.PagesPerPart)
	text += fmt.Sprintf("Max file size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	text += `Available Tools:

• pdf_to_markdown
  Convert a PDF to Markdown. Large documents are split into parts, each part is
  OCR'd independently, and the results are reassembled with consecutive page
  footers and extracted images. Outputs <stem>.md plus a <stem>/ folder with
  part PDFs and an images/ directory.
  Parameters: path (required)

• pdf_split
  Split a PDF into fixed-size page-range parts without running OCR.
  Parameters: path (required)

• markdown_toc
  Extract a table of contents from Markdown headings.
  Parameters: path (required)

• markdown_summary
  Summarize a Markdown file via the chat-completion service.
  Parameters: path (required), max_tokens (optional)

Always use absolute file paths. OCR and summary calls go to the configured
remote service and are bounded by the configured timeout; a failed part aborts
the document and leaves already-written files in place for inspection.`

	return mcp.NewToolResultText(text), nil
}

// formatConvertResult renders a conversion result for tool output
func (s *Server) formatConvertResult(result *converter.ConvertResult) string {
	text := fmt.Sprintf("Successfully converted: %s\n", result.Path)
	text += fmt.Sprintf("Markdown: %s\n", result.MarkdownPath)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Parts: %d\n", len(result.Parts))

	if result.TOCPath != "" {
		text += fmt.Sprintf("Table of contents: %s\n", result.TOCPath)
	}
	if result.SummaryPath != "" {
		text += fmt.Sprintf("Summary: %s\n", result.SummaryPath)
	}
	if result.Usage != nil {
		text += fmt.Sprintf("Tokens: %d prompt, %d completion, %d total\n",
			result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)
	}

	if len(result.TOC) > 0 {
		text += fmt.Sprintf("\nHeadings (%d):\n", len(result.TOC))
		for i, entry := range result.TOC {
			if i >= 10 { // Limit to first 10 entries for readability
				text += fmt.Sprintf("... and %d more\n", len(result.TOC)-10)
				break
			}
			text += fmt.Sprintf("level %d: %s\n", entry.Level, entry.Title)
		}
	}

	return text
}

// Run starts the MCP server over stdio
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting pdf2md MCP server in stdio mode")
		log.Printf("OCR endpoint: %s", s.config.OCREndpoint)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
