package engine

import (
	"os"
	"runtime"
	"strconv"

	"flexsim-mcp/internal/logger"
)

// Options configures a Launch.
type Options struct {
	// InstallPath is the primary FlexSim program directory.
	InstallPath string
	// FallbackPaths are tried in order when the primary is missing.
	FallbackPaths []string
	// ShowGUI keeps the engine window visible.
	ShowGUI bool
	// EvaluationLicense requests the evaluation license on launch.
	EvaluationLicense bool
	// Log receives launch progress; nil uses the global logger.
	Log *logger.LogEntry
}

// ResolveInstallDir picks the first existing program directory from the
// primary path and the ordered fallbacks. All missing yields a not-found
// error naming the primary path.
func ResolveInstallDir(primary string, fallbacks []string) (string, error) {
	if dirExists(primary) {
		return primary, nil
	}
	for _, alt := range fallbacks {
		if dirExists(alt) {
			return alt, nil
		}
	}
	return "", NewError(CategoryNotFound,
		"FlexSim not found at %s; update flexsim.install_path in %s", primary, "flexsim-mcp.toml")
}

// Launch resolves the install directory and starts the vendor bridge
// process there, returning a Controller speaking to it. The returned
// handle stays valid for the process lifetime.
func Launch(opts Options) (Controller, error) {
	log := opts.Log
	if log == nil {
		log = logger.Named("engine")
	}
	dir, err := ResolveInstallDir(opts.InstallPath, opts.FallbackPaths)
	if err != nil {
		return nil, err
	}
	log.WithField("dir", dir).Info("launching FlexSim")

	args := []string{
		"--program-dir", dir,
		"--show-gui", strconv.FormatBool(opts.ShowGUI),
	}
	if opts.EvaluationLicense {
		args = append(args, "--evaluation-license")
	}
	ctrl, err := startBridge(dir, bridgeExecutable(), args, log)
	if err != nil {
		return nil, err
	}
	log.Info("FlexSim launched")
	return ctrl, nil
}

func bridgeExecutable() string {
	if runtime.GOOS == "windows" {
		return "flexsimpy-bridge.exe"
	}
	return "flexsimpy-bridge"
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
