package ocr

// Request is the JSON body submitted to the OCR endpoint.
type Request struct {
	Model              string   `json:"model"`
	Document           Document `json:"document"`
	IncludeImageBase64 bool     `json:"include_image_base64"`
}

// Document identifies the submitted document. Type is "document_url" with a
// base64 data URI payload, or "document_base64" with the bare encoding.
type Document struct {
	Type           string `json:"type"`
	DocumentURL    string `json:"document_url,omitempty"`
	DocumentBase64 string `json:"document_base64,omitempty"`
}

// Response is the OCR result for one submitted document.
type Response struct {
	Pages     []Page     `json:"pages"`
	Model     string     `json:"model,omitempty"`
	UsageInfo *UsageInfo `json:"usage_info,omitempty"`
	Usage     *Usage     `json:"usage,omitempty"`

	// Raw holds the undecoded response body for optional capture.
	Raw []byte `json:"-"`
}

// Page is a single OCR'd page with its Markdown text and embedded images.
type Page struct {
	Index    int     `json:"index"`
	Markdown string  `json:"markdown"`
	Images   []Image `json:"images,omitempty"`
}

// Image is an embedded page image. ImageBase64 may carry a data-URI prefix.
type Image struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

// UsageInfo reports document-level processing statistics.
type UsageInfo struct {
	PagesProcessed int  `json:"pages_processed"`
	DocSizeBytes   *int `json:"doc_size_bytes,omitempty"`
}

// Usage reports token accounting, present on some gateway deployments.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
