package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"flexsim-mcp/internal/flexscript"
)

// pollInterval paces the real-time run loop.
const pollInterval = 100 * time.Millisecond

func decode[T any](args json.RawMessage) (*T, error) {
	var in T
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, &ValidationError{Message: "invalid arguments: " + err.Error()}
		}
	}
	return &in, nil
}

func openModel(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[OpenModelInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if err := ctrl.Open(in.ModelPath); err != nil {
		return "", engineFailure(err)
	}
	name := strings.TrimSuffix(filepath.Base(in.ModelPath), filepath.Ext(in.ModelPath))
	t, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ Opened: %s\nTime: %s", name, FormatTime(t)), nil
}

func reset(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if err := ctrl.Reset(); err != nil {
		return "", engineFailure(err)
	}
	return "✓ Simulation reset to time 0", nil
}

func run(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if err := ctrl.Run(); err != nil {
		return "", engineFailure(err)
	}
	return "✓ Simulation running (use flexsim_stop to pause)", nil
}

func runToTime(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[RunToTimeInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	start, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	if start >= in.TargetTime {
		return fmt.Sprintf("Already at time %s", FormatTime(start)), nil
	}

	if in.FastMode {
		// One blocking call at maximum speed; the GUI does not refresh.
		if err := ctrl.RunToTime(in.TargetTime); err != nil {
			return "", engineFailure(err)
		}
	} else {
		// Real-time mode: arm the stop time, run with GUI animation and
		// poll until the target is reached.
		if _, err := ctrl.Evaluate(flexscript.SetStopTime(in.TargetTime)); err != nil {
			return "", engineFailure(err)
		}
		if err := ctrl.Run(); err != nil {
			return "", engineFailure(err)
		}
		for {
			current, err := ctrl.Time()
			if err != nil {
				return "", engineFailure(err)
			}
			if current >= in.TargetTime {
				if err := ctrl.Stop(); err != nil {
					return "", engineFailure(err)
				}
				break
			}
			if ctx.Err() != nil {
				_ = ctrl.Stop()
				return "", &ExecutionError{Text: fmt.Sprintf("Error: run cancelled at %s", FormatTime(current))}
			}
			rt.sleep(pollInterval)
		}
	}

	end, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	mode := "real-time"
	if in.FastMode {
		mode = "fast"
	}
	return fmt.Sprintf(
		"✓ Simulation complete (%s)\nStart: %s\nEnd: %s\nDuration: %s",
		mode, FormatTime(start), FormatTime(end), FormatTime(end-start),
	), nil
}

func stop(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if err := ctrl.Stop(); err != nil {
		return "", engineFailure(err)
	}
	t, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ Stopped at %s", FormatTime(t)), nil
}

func getTime(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	t, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("Time: %s (%.2fs)", FormatTime(t), t), nil
}

func step(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[StepInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	start, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	// The controller surface has no native step; drive the FlexScript
	// step() command once per event.
	for i := 0; i < in.Steps; i++ {
		if _, err := ctrl.Evaluate(flexscript.Step()); err != nil {
			return "", engineFailure(err)
		}
	}
	end, err := ctrl.Time()
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ Stepped %d events\nTime: %s → %s", in.Steps, FormatTime(start), FormatTime(end)), nil
}

func evaluate(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[EvaluateInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	result, err := ctrl.Evaluate(in.Script)
	if err != nil {
		return "", &ExecutionError{Text: "Script error: " + FormatError(err)}
	}
	return fmt.Sprintf("Result: %s", result), nil
}

func getNodeValue(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[NodeValueInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	result, err := ctrl.Evaluate(flexscript.GetValue(in.NodePath))
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("%s = %s", in.NodePath, result), nil
}

func setNodeValue(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[NodeValueInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	if in.Value == nil {
		return "", validationf("value", "must be provided")
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if _, err := ctrl.Evaluate(flexscript.SetValue(in.NodePath, in.Value)); err != nil {
		return "", engineFailure(err)
	}
	// Read the node back so the reply shows the engine's view of the value.
	verified, err := ctrl.Evaluate(flexscript.GetValue(in.NodePath))
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ %s = %s", in.NodePath, verified), nil
}

func saveModel(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[SaveModelInput](args)
	if err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	location := "current location"
	if strings.TrimSpace(in.SavePath) != "" {
		location = in.SavePath
	}
	if _, err := ctrl.Evaluate(flexscript.SaveModel(in.SavePath)); err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ Model saved to %s", location), nil
}

func newModel(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if _, err := ctrl.Evaluate(flexscript.NewModel()); err != nil {
		return "", engineFailure(err)
	}
	return "✓ New blank model created", nil
}

func compile(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	result, err := ctrl.Evaluate(flexscript.CompileModel())
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ Compilation complete: %s", result), nil
}

func getStatistics(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	result, err := ctrl.Evaluate(flexscript.Statistics())
	if err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("Statistics:\n```json\n%s\n```", result), nil
}

func exportResults(ctx context.Context, rt *Runtime, args json.RawMessage) (string, error) {
	in, err := decode[ExportResultsInput](args)
	if err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	ctrl, err := rt.Sessions.Acquire()
	if err != nil {
		return "", engineFailure(err)
	}
	if _, err := ctrl.Evaluate(flexscript.Export(in.ExportPath, in.Format)); err != nil {
		return "", engineFailure(err)
	}
	return fmt.Sprintf("✓ Results exported to %s", in.ExportPath), nil
}
