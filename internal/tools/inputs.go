package tools

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	maxScriptLength = 10000
	minSteps        = 1
	maxSteps        = 1000
)

var modelExtensions = []string{".fsm", ".fsx"}

// OpenModelInput opens a model file.
type OpenModelInput struct {
	ModelPath string `json:"model_path" jsonschema:"minLength=1" jsonschema_description:"Path to a .fsm or .fsx model file."`
}

// Validate checks extension and existence and resolves the path.
func (in *OpenModelInput) Validate() error {
	path := strings.TrimSpace(in.ModelPath)
	if path == "" {
		return validationf("model_path", "must not be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	allowed := false
	for _, e := range modelExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return validationf("model_path", "model must be a .fsm or .fsx file")
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return validationf("model_path", "file not found: %s", path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		in.ModelPath = abs
	}
	return nil
}

// RunToTimeInput runs the simulation until a target time.
type RunToTimeInput struct {
	TargetTime float64 `json:"target_time" jsonschema_description:"Target simulation time in seconds."`
	FastMode   bool    `json:"fast_mode,omitempty" jsonschema_description:"Run at maximum speed without GUI updates."`
}

func (in *RunToTimeInput) Validate() error {
	if in.TargetTime <= 0 {
		return validationf("target_time", "must be greater than zero")
	}
	return nil
}

// EvaluateInput executes arbitrary FlexScript.
type EvaluateInput struct {
	Script string `json:"script" jsonschema:"minLength=1" jsonschema_description:"FlexScript code to evaluate."`
}

func (in *EvaluateInput) Validate() error {
	if len(in.Script) == 0 {
		return validationf("script", "must not be empty")
	}
	if len(in.Script) > maxScriptLength {
		return validationf("script", "exceeds %d characters", maxScriptLength)
	}
	return nil
}

// StepInput advances a bounded number of events.
type StepInput struct {
	Steps int `json:"steps,omitempty" jsonschema:"minimum=1,maximum=1000" jsonschema_description:"Number of events to step (1-1000, default 1)."`
}

func (in *StepInput) Validate() error {
	if in.Steps == 0 {
		in.Steps = 1
	}
	if in.Steps < minSteps || in.Steps > maxSteps {
		return validationf("steps", "must be between %d and %d", minSteps, maxSteps)
	}
	return nil
}

// NodeValueInput addresses a tree node, optionally with a new value.
type NodeValueInput struct {
	NodePath string `json:"node_path" jsonschema:"minLength=1" jsonschema_description:"Path to a tree node, e.g. Model/Queue1/stats/input."`
	Value    any    `json:"value,omitempty" jsonschema_description:"New value for set operations."`
}

func (in *NodeValueInput) Validate() error {
	if strings.TrimSpace(in.NodePath) == "" {
		return validationf("node_path", "must not be empty")
	}
	return nil
}

// SaveModelInput saves the model, optionally to a new path.
type SaveModelInput struct {
	SavePath string `json:"save_path,omitempty" jsonschema_description:"Destination path; the current location is used when omitted."`
}

// ExportResultsInput writes simulation results to a file.
type ExportResultsInput struct {
	ExportPath string `json:"export_path" jsonschema:"minLength=1" jsonschema_description:"Destination file for the exported results."`
	Format     string `json:"format,omitempty" jsonschema:"enum=csv,enum=xlsx,enum=json" jsonschema_description:"Export format (default csv)."`
}

func (in *ExportResultsInput) Validate() error {
	if strings.TrimSpace(in.ExportPath) == "" {
		return validationf("export_path", "must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(in.Format)) {
	case "":
		in.Format = "csv"
	case "csv", "xlsx", "json":
		in.Format = strings.ToLower(strings.TrimSpace(in.Format))
	default:
		return validationf("format", "must be one of csv, xlsx, json")
	}
	return nil
}
