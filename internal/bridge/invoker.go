package bridge

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"

	"github.com/openshift-assist/mcpbridge/internal/contracts"
	"github.com/openshift-assist/mcpbridge/internal/errors"
)

// errorPrefix distinguishes failure strings from successful results in the
// agent's string-only tool contract.
const errorPrefix = "Error executing tool"

// sessionClosedSignatures are error substrings that identify a transient
// dead-session failure. The closed session can surface from either the HTTP
// layer or the MCP transport, so matching is on signature rather than on
// concrete error types.
var sessionClosedSignatures = []string{
	"session terminated",
	"session closed",
	"session not found",
	"connection closed",
	"connection reset",
	"broken pipe",
	"EOF",
}

// Invoker executes remote tool calls through the session registry, applying
// the single evict+retry recovery policy. Invoke never returns an error: all
// failure paths are converted to a prefixed, human-readable string.
type Invoker struct {
	logger      hclog.Logger
	sessions    contracts.MCPSessionAccessor
	callTimeout time.Duration
}

// NewInvoker creates an invoker whose individual remote calls are bounded by
// callTimeout.
func NewInvoker(logger hclog.Logger, sessions contracts.MCPSessionAccessor, callTimeout time.Duration) *Invoker {
	return &Invoker{
		logger:      logger.Named("invoker"),
		sessions:    sessions,
		callTimeout: callTimeout,
	}
}

// Invoke adapts arguments, obtains a session, and executes the remote call.
// On a session-closed failure the session is evicted and the call retried
// exactly once; any other failure is surfaced immediately. The result (or
// failure) is always a string.
func (i *Invoker) Invoke(ctx context.Context, desc ToolDescriptor, positional []any, keyword map[string]any) string {
	args := AdaptArguments(i.logger, desc.RemoteName, desc.Params, positional, keyword)

	i.validateArguments(desc, args)

	i.logger.Debug("Dispatching tool call", "tool", desc.Name, "server", desc.Server, "args", args)

	session, err := i.sessions.GetOrCreate(ctx, desc.Server)
	if err != nil {
		// The server is unreachable, not transiently broken: no retry.
		return fmt.Sprintf("%s %s: unable to connect to server %s: %v", errorPrefix, desc.DisplayName, desc.Server, err)
	}

	result, err := i.call(ctx, session, desc, args)
	if err != nil {
		if !IsSessionClosed(err) {
			i.logger.Error("Tool call failed", "tool", desc.Name, "server", desc.Server, "error", err)
			return fmt.Sprintf("%s %s: %v", errorPrefix, desc.DisplayName, err)
		}

		i.logger.Info("Session closed mid-call, reconnecting and retrying once", "tool", desc.Name, "server", desc.Server)
		i.sessions.Evict(desc.Server)

		retrySession, retryErr := i.sessions.GetOrCreate(ctx, desc.Server)
		if retryErr != nil {
			return fmt.Sprintf("%s %s: unable to reconnect to server %s: %v", errorPrefix, desc.DisplayName, desc.Server, retryErr)
		}

		result, err = i.call(ctx, retrySession, desc, args)
		if err != nil {
			i.logger.Error("Retry failed", "tool", desc.Name, "server", desc.Server, "error", err)
			return fmt.Sprintf("%s %s (retry failed): %v", errorPrefix, desc.DisplayName, err)
		}
	}

	decoded, err := DecodeResult(result)
	if err != nil {
		return fmt.Sprintf("%s %s: %v", errorPrefix, desc.DisplayName, err)
	}
	if decoded.IsError {
		return fmt.Sprintf("%s %s: %s", errorPrefix, desc.DisplayName, decoded.String())
	}

	return decoded.String()
}

// call executes one remote tool call with its own timeout.
func (i *Invoker) call(
	ctx context.Context,
	session client.MCPClient,
	desc ToolDescriptor,
	args map[string]any,
) (*mcp.CallToolResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, i.callTimeout)
	defer cancel()

	result, err := session.CallTool(callCtx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      desc.RemoteName,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", errors.ErrToolCallFailed, desc.Server, desc.RemoteName, err)
	}

	return result, nil
}

// validateArguments checks the adapted arguments against the tool's declared
// input schema. Advisory only: mismatches are logged and the call proceeds,
// because the remote server is the source of truth for its own schema.
func (i *Invoker) validateArguments(desc ToolDescriptor, args map[string]any) {
	if len(desc.InputSchema.Properties) == 0 {
		return
	}

	schemaType := desc.InputSchema.Type
	if schemaType == "" {
		schemaType = "object"
	}

	schemaLoader := gojsonschema.NewGoLoader(map[string]any{
		"type":       schemaType,
		"properties": desc.InputSchema.Properties,
		"required":   desc.InputSchema.Required,
	})

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(args))
	if err != nil {
		i.logger.Debug("Argument schema validation unavailable", "tool", desc.Name, "error", err)
		return
	}

	for _, violation := range result.Errors() {
		i.logger.Warn("Tool arguments do not match declared schema", "tool", desc.Name, "violation", violation.String())
	}
}

// IsSessionClosed reports whether err carries a transient dead-session
// signature eligible for the single retry.
func IsSessionClosed(err error) bool {
	if err == nil {
		return false
	}
	if stdErrors.Is(err, errors.ErrSessionClosed) || stdErrors.Is(err, io.EOF) {
		return true
	}

	msg := err.Error()
	for _, sig := range sessionClosedSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}

	return false
}
