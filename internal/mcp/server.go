package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"flexsim-mcp/internal/logger"
	"flexsim-mcp/internal/tools"
)

// maxMessageSize bounds one request line.
const maxMessageSize = 10 * 1024 * 1024

// Server answers MCP requests over a duplex text stream. Requests are
// handled strictly in the order received, one at a time; there is no
// pipelining and responses are never reordered.
type Server struct {
	info     Implementation
	reader   *bufio.Reader
	writer   *bufio.Writer
	mu       sync.Mutex
	registry *tools.Registry
	runtime  *tools.Runtime
	log      *logger.LogEntry
}

// NewServer wires a server for the given tool registry and runtime.
func NewServer(info Implementation, registry *tools.Registry, runtime *tools.Runtime, r io.Reader, w io.Writer) *Server {
	return &Server{
		info:     info,
		reader:   bufio.NewReaderSize(r, 64*1024),
		writer:   bufio.NewWriter(w),
		registry: registry,
		runtime:  runtime,
		log:      logger.Named("mcp"),
	}
}

// Serve reads requests until EOF or context cancellation. A single bad
// request never terminates the loop.
func (s *Server) Serve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(line) == 0 {
					s.log.Info("stdin closed; shutting down")
					return nil
				}
				// Process the final unterminated line, then exit.
				s.handleLine(ctx, line)
				return nil
			}
			s.log.WithField("error", err.Error()).Error("read failed")
			return err
		}
		if len(line) > maxMessageSize {
			s.sendError(nil, CodeInvalidRequest, "message too large", nil)
			continue
		}
		s.handleLine(ctx, line)
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte) {
	trimmed := trimLine(line)
	if len(trimmed) == 0 {
		return
	}
	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		s.sendError(nil, CodeParseError, "invalid json", nil)
		return
	}
	if req.JSONRPC != JSONRPCVersion {
		s.sendError(req.ID, CodeInvalidRequest, "invalid jsonrpc version", nil)
		return
	}
	s.dispatch(ctx, req)
}

func (s *Server) dispatch(ctx context.Context, req Request) {
	s.log.WithField("method", req.Method).Debug("request")
	switch req.Method {
	case MethodInitialize:
		s.handleInitialize(req)
	case MethodInitialized:
		// Fire-and-forget handshake completion; nothing to answer.
		s.log.Info("client initialized")
	case MethodPing:
		s.sendResult(req.ID, struct{}{})
	case MethodListTools:
		s.handleListTools(req)
	case MethodCallTool:
		s.handleCallTool(ctx, req)
	default:
		if req.IsNotification() {
			s.log.WithField("method", req.Method).Debug("ignoring unknown notification")
			return
		}
		s.sendError(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}
}

func (s *Server) handleInitialize(req Request) {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(req.ID, CodeInvalidParams, "malformed initialize params", nil)
			return
		}
	}
	s.log.WithField("client", params.ClientInfo.Name).Info("initialize")
	s.sendResult(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      s.info,
		Capabilities: Capabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
	})
}

func (s *Server) handleListTools(req Request) {
	defs := s.registry.List()
	descriptors := make([]ToolDescriptor, 0, len(defs))
	for _, def := range defs {
		descriptors = append(descriptors, ToolDescriptor{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	s.sendResult(req.ID, ListToolsResult{Tools: descriptors})
}

func (s *Server) handleCallTool(ctx context.Context, req Request) {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, CodeInvalidParams, "malformed tools/call params", nil)
		return
	}
	def, ok := s.registry.Lookup(params.Name)
	if !ok {
		s.sendError(req.ID, CodeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name), nil)
		return
	}

	text, err := def.Handler(ctx, s.runtime, params.Arguments)
	if err != nil {
		// Input rejection is a protocol error; an engine failure is a
		// successful call whose result carries the error flag.
		var verr *tools.ValidationError
		if errors.As(err, &verr) {
			s.sendError(req.ID, CodeInvalidParams, verr.Error(), nil)
			return
		}
		var xerr *tools.ExecutionError
		if errors.As(err, &xerr) {
			s.sendResult(req.ID, NewTextResult(xerr.Text, true))
			return
		}
		s.sendError(req.ID, CodeInternalError, err.Error(), nil)
		return
	}
	s.sendResult(req.ID, NewTextResult(text, false))
}

func (s *Server) sendResult(id json.RawMessage, result any) {
	if len(id) == 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		s.sendError(id, CodeInternalError, "marshal result", nil)
		return
	}
	s.send(Response{JSONRPC: JSONRPCVersion, ID: id, Result: raw})
}

func (s *Server) sendError(id json.RawMessage, code int, message string, data any) {
	s.send(Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &ErrorPayload{Code: code, Message: message, Data: data},
	})
}

func (s *Server) send(payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = s.writer.Write(append(data, '\n'))
	_ = s.writer.Flush()
}

func trimLine(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
