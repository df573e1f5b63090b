package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assist/mcpbridge/internal/errors"
)

const (
	// ResultKindText indicates one or more text content blocks.
	ResultKindText ResultKind = "text"

	// ResultKindStructured indicates structured (non-text) content.
	ResultKindStructured ResultKind = "structured"

	// ResultKindEmpty indicates a result carrying no content.
	ResultKindEmpty ResultKind = "empty"
)

// ResultKind tags the decoded variant of a tool call result envelope.
type ResultKind string

// Result is the decoded form of a tool call result. The protocol envelope is
// decoded exactly once, here, so callers never probe differently-shaped
// result objects.
type Result struct {
	Kind       ResultKind
	Texts      []string
	Structured any
	IsError    bool
}

// DecodeResult decodes an mcp.CallToolResult into a tagged Result.
// Text blocks win over structured content when both are present.
func DecodeResult(res *mcp.CallToolResult) (Result, error) {
	if res == nil {
		return Result{}, fmt.Errorf("%w: nil tool call result", errors.ErrProtocol)
	}

	var texts []string
	for _, content := range res.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			texts = append(texts, textContent.Text)
		}
	}

	switch {
	case len(texts) > 0:
		return Result{Kind: ResultKindText, Texts: texts, IsError: res.IsError}, nil
	case res.StructuredContent != nil:
		return Result{Kind: ResultKindStructured, Structured: res.StructuredContent, IsError: res.IsError}, nil
	case len(res.Content) > 0:
		// Non-text content blocks (images, resources): treat as structured.
		return Result{Kind: ResultKindStructured, Structured: res.Content, IsError: res.IsError}, nil
	default:
		return Result{Kind: ResultKindEmpty, IsError: res.IsError}, nil
	}
}

// String renders the decoded result for the agent's string-only tool contract.
func (r Result) String() string {
	switch r.Kind {
	case ResultKindText:
		return strings.Join(r.Texts, "\n")
	case ResultKindStructured:
		data, err := json.Marshal(r.Structured)
		if err != nil {
			return fmt.Sprintf("%v", r.Structured)
		}
		return string(data)
	default:
		return ""
	}
}
