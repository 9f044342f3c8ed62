// Package mcp implements the line-delimited JSON-RPC exchange the server
// speaks over stdio, plus the client side used by the chat front end.
package mcp

import "encoding/json"

const (
	// JSONRPCVersion is the fixed jsonrpc field value.
	JSONRPCVersion = "2.0"
	// ProtocolVersion is the MCP revision negotiated during initialize.
	ProtocolVersion = "2024-11-05"
)

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Methods handled by the server.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"
	MethodListTools   = "tools/list"
	MethodCallTool    = "tools/call"
)

// Request is one incoming message. Notifications carry no id.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response echoes the request id with a result or error.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorPayload   `json:"error,omitempty"`
}

// ErrorPayload is the JSON-RPC error object.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Implementation names a protocol participant.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the client half of the handshake.
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ClientInfo      Implementation `json:"clientInfo"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
}

// InitializeResult is the server half of the handshake.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      Implementation `json:"serverInfo"`
	Capabilities    Capabilities   `json:"capabilities"`
}

// Capabilities advertises what the server supports; only tools here.
type Capabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability is the tools capability block.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ToolDescriptor is one entry in a tools/list result.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ListToolsResult is the tools/list payload.
type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// CallToolParams is the tools/call request payload.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// TextContent is the only content block this server emits.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult wraps a tool reply. Engine failures set IsError while
// remaining a successful JSON-RPC response.
type CallToolResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// NewTextResult builds a single-block text result.
func NewTextResult(text string, isErr bool) CallToolResult {
	return CallToolResult{
		Content: []TextContent{{Type: "text", Text: text}},
		IsError: isErr,
	}
}
