package interviews

import (
	"io"
	"time"

	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/media"
)

// Analysis is one completed interview analysis and the metadata used to show it.
type Analysis struct {
	ID          string       `json:"id"`
	FileName    string       `json:"fileName"`
	BaseName    string       `json:"baseName"`
	Kind        media.Kind   `json:"kind"`
	MIMEType    string       `json:"mimeType"`
	SizeBytes   int64        `json:"sizeBytes"`
	Language    llm.Language `json:"language"`
	Mode        llm.Mode     `json:"mode"`
	Model       string       `json:"model"`
	Result      llm.Result   `json:"result"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt time.Time    `json:"completedAt"`
}

// AnalyzeRequest carries one upload into Service.Analyze.
type AnalyzeRequest struct {
	// Owner scopes the staged copy, usually the session ID.
	Owner    string
	APIKey   string
	Language string
	FileName string
	Body     io.Reader
}
