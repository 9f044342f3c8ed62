package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"flexsim-mcp/internal/logger"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// bridgeRequest is one line sent to the vendor bridge process.
type bridgeRequest struct {
	Op  string `json:"op"`
	Arg string `json:"arg,omitempty"`
}

// bridgeReply is one line read back. Failures carry a code from the
// vendor's error table plus the message text.
type bridgeReply struct {
	OK    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// bridge drives the vendor bridge over stdin/stdout pipes with a
// line-delimited exchange. One request is in flight at a time; the mutex
// keeps request/reply pairing intact when tool calls overlap.
type bridge struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader
	log    *logger.LogEntry
}

var _ Controller = (*bridge)(nil)

func startBridge(dir, executable string, args []string, log *logger.LogEntry) (*bridge, error) {
	path := filepath.Join(dir, executable)
	if !fileExists(path) {
		return nil, NewError(CategoryNotFound, "bridge executable not found: %s", path)
	}
	cmd := exec.Command(path, args...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdout: %w", err)
	}
	// CEF subprocess noise goes to stderr; drop it like the GUI does.
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start bridge: %w", err)
	}
	return &bridge{
		cmd:    cmd,
		stdin:  stdin,
		reader: bufio.NewReader(stdout),
		log:    log,
	}, nil
}

func (b *bridge) Open(path string) error {
	_, err := b.call("open", path)
	return err
}

func (b *bridge) Reset() error {
	_, err := b.call("reset", "")
	return err
}

func (b *bridge) Run() error {
	_, err := b.call("run", "")
	return err
}

func (b *bridge) Stop() error {
	_, err := b.call("stop", "")
	return err
}

func (b *bridge) Time() (float64, error) {
	value, err := b.call("time", "")
	if err != nil {
		return 0, err
	}
	t, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, NewError(CategoryGeneric, "bridge returned non-numeric time %q", value)
	}
	return t, nil
}

func (b *bridge) RunToTime(target float64) error {
	_, err := b.call("runToTime", strconv.FormatFloat(target, 'f', -1, 64))
	return err
}

func (b *bridge) Evaluate(script string) (string, error) {
	return b.call("evaluate", script)
}

func (b *bridge) call(op, arg string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	payload, err := json.Marshal(bridgeRequest{Op: op, Arg: arg})
	if err != nil {
		return "", err
	}
	if _, err := b.stdin.Write(append(payload, '\n')); err != nil {
		return "", fmt.Errorf("bridge write (%s): %w", op, err)
	}
	line, err := b.reader.ReadBytes('\n')
	if err != nil {
		return "", fmt.Errorf("bridge read (%s): %w", op, err)
	}
	var reply bridgeReply
	if err := json.Unmarshal(line, &reply); err != nil {
		return "", fmt.Errorf("bridge reply (%s): %w", op, err)
	}
	if !reply.OK {
		return "", &Error{Category: categoryFromCode(reply.Code), Message: reply.Error}
	}
	if b.log != nil {
		b.log.WithField("op", op).Debug("bridge call")
	}
	return reply.Value, nil
}

