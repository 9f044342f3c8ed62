package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"flexsim-mcp/internal/logger"
)

// Client drives an MCP server over a duplex text stream, one request at a
// time. It is what the chat front end and the integration tests use.
type Client struct {
	mu     sync.Mutex
	writer io.Writer
	reader *bufio.Reader
	closer io.Closer
	cmd    *exec.Cmd
	nextID int
	log    *logger.LogEntry

	serverInfo Implementation
	tools      []ToolDescriptor
}

// NewPipeClient wraps an existing duplex stream; used for in-process
// wiring and tests.
func NewPipeClient(w io.Writer, r io.Reader) *Client {
	return &Client{
		writer: w,
		reader: bufio.NewReaderSize(r, 64*1024),
		log:    logger.Named("mcp-client"),
	}
}

// Connect spawns the server subprocess and attaches to its stdio.
func Connect(command string, args []string, dir string) (*Client, error) {
	cmd := exec.Command(command, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("server stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start server: %w", err)
	}
	c := NewPipeClient(stdin, stdout)
	c.closer = stdin
	c.cmd = cmd
	return c, nil
}

// Initialize performs the handshake and sends the initialized
// notification.
func (c *Client) Initialize(clientInfo Implementation) (InitializeResult, error) {
	var result InitializeResult
	err := c.roundTrip(MethodInitialize, InitializeParams{
		ProtocolVersion: ProtocolVersion,
		ClientInfo:      clientInfo,
	}, &result)
	if err != nil {
		return InitializeResult{}, err
	}
	c.serverInfo = result.ServerInfo
	if err := c.notify(MethodInitialized, nil); err != nil {
		return InitializeResult{}, err
	}
	return result, nil
}

// ServerInfo returns the identity captured during Initialize.
func (c *Client) ServerInfo() Implementation {
	return c.serverInfo
}

// ListTools fetches and caches the server's tool surface.
func (c *Client) ListTools() ([]ToolDescriptor, error) {
	var result ListToolsResult
	if err := c.roundTrip(MethodListTools, struct{}{}, &result); err != nil {
		return nil, err
	}
	c.tools = result.Tools
	return result.Tools, nil
}

// Tools returns the cached descriptors from the last ListTools.
func (c *Client) Tools() []ToolDescriptor {
	return c.tools
}

// CallTool invokes one tool and returns its text payload. isError mirrors
// the result's isError flag; a protocol-level rejection comes back as err.
func (c *Client) CallTool(name string, arguments json.RawMessage) (string, bool, error) {
	var result CallToolResult
	err := c.roundTrip(MethodCallTool, CallToolParams{Name: name, Arguments: arguments}, &result)
	if err != nil {
		return "", false, err
	}
	text := ""
	for i, block := range result.Content {
		if block.Type != "text" {
			continue
		}
		if i > 0 {
			text += "\n"
		}
		text += block.Text
	}
	return text, result.IsError, nil
}

// Ping checks liveness.
func (c *Client) Ping() error {
	var result struct{}
	return c.roundTrip(MethodPing, struct{}{}, &result)
}

// Close detaches from the server. The subprocess is left to exit on its
// own once stdin closes.
func (c *Client) Close() error {
	if c.closer != nil {
		_ = c.closer.Close()
	}
	if c.cmd != nil {
		return c.cmd.Wait()
	}
	return nil
}

// RPCError is a protocol-level error response.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) roundTrip(method string, params any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := json.RawMessage(strconv.Itoa(c.nextID))
	if err := c.write(Request{JSONRPC: JSONRPCVersion, ID: id, Method: method, Params: mustMarshal(params)}); err != nil {
		return err
	}
	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("read response (%s): %w", method, err)
		}
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return fmt.Errorf("decode response (%s): %w", method, err)
		}
		// Server-initiated notifications have no id; skip them.
		if len(resp.ID) == 0 || string(resp.ID) != string(id) {
			continue
		}
		if resp.Error != nil {
			return &RPCError{Code: resp.Error.Code, Message: resp.Error.Message}
		}
		if out != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("decode result (%s): %w", method, err)
			}
		}
		return nil
	}
}

func (c *Client) notify(method string, params any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(Request{JSONRPC: JSONRPCVersion, Method: method, Params: mustMarshal(params)})
}

func (c *Client) write(req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := c.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func mustMarshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
