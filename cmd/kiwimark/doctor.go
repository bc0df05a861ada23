package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-kiwimark"
	"github.com/alnah/go-kiwimark/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo describes the resolved configuration.
type configInfo struct {
	Source  string `json:"source"` // config file path, or "defaults"
	Valid   bool   `json:"valid"`
	OrgMode string `json:"org_mode,omitempty"`
	Addr    string `json:"addr,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	Container     bool     `json:"container"`
	ContainerHint string   `json:"container_hint,omitempty"`
	CI            bool     `json:"ci"`
	KiwimarkVars  []string `json:"kiwimark_vars,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	OutputDir      string `json:"output_dir,omitempty"`
	OutputWritable bool   `json:"output_writable"`
	AddrAvailable  bool   `json:"addr_available"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, usageOut io.Writer) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printDoctorUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return ExitUsage
	}

	result := runDoctor(flags.common.config)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg := checkConfig(result, configName)
	checkEnvironment(result)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig resolves configuration the way convert and serve do.
// Returns defaults when the configuration cannot be used.
func checkConfig(result *doctorResult, configName string) *config.Config {
	envCfg := loadEnvConfig()

	name := configName
	if name == "" {
		name = envCfg.ConfigPath
	}
	result.Config.Source = "defaults"
	if name != "" {
		result.Config.Source = name
	}

	cfg, err := loadConfig(configName, envCfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig()
	}
	if _, err := kiwimark.ParseOrgMode(cfg.Markup.OrgMode); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig()
	}
	if err := kiwimark.ValidateBaseURL(cfg.Page.BaseURL); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig()
	}

	result.Config.Valid = true
	result.Config.OrgMode = cfg.Markup.OrgMode
	result.Config.Addr = cfg.Server.Addr
	return cfg
}

// checkEnvironment detects container and CI environments and lists
// KIWIMARK_* variables, warning on unknown ones.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	for _, kv := range os.Environ() {
		name, val, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, "KIWIMARK_") || val == "" {
			continue
		}
		result.Env.KiwimarkVars = append(result.Env.KiwimarkVars, name)
		if !knownEnvVars[name] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Unknown environment variable %s (typo?)", name))
		}
	}
	slices.Sort(result.Env.KiwimarkVars)

	// A loopback address is unreachable from outside the container
	if result.Env.Container && strings.HasPrefix(os.Getenv("KIWIMARK_ADDR"), "127.") {
		result.Warnings = append(result.Warnings,
			"Container detected but KIWIMARK_ADDR is loopback. Use 0.0.0.0:<port> to serve outside the container")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("KIWIMARK_CONTAINER") == "1" {
		return true, "KIWIMARK_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp and output directories are writable and
// the server address can be bound.
func checkSystem(result *doctorResult, cfg *config.Config) {
	if dirWritable(os.TempDir()) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	}

	// Output goes next to each source when no directory is configured
	result.System.OutputDir = cfg.Output.DefaultDir
	if dir := cfg.Output.DefaultDir; dir != "" {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Output directory %s does not exist yet; convert will create it", dir))
			result.System.OutputWritable = true
		} else if dirWritable(dir) {
			result.System.OutputWritable = true
		} else {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Output directory not writable: %s", dir))
		}
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Server address %s unavailable: %v", cfg.Server.Addr, err))
		return
	}
	_ = ln.Close()
	result.System.AddrAvailable = true
}

// dirWritable creates and removes a scratch file in dir.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".kiwimark-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "kiwimark doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Org mode: %s\n", r.Config.OrgMode)
		fmt.Fprintf(w, "  [OK] Server address: %s\n", r.Config.Addr)
	} else {
		fmt.Fprintln(w, "  [ERROR] Invalid (see errors below)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if len(r.Env.KiwimarkVars) > 0 {
		fmt.Fprintf(w, "  [OK] Variables: %s\n", strings.Join(r.Env.KiwimarkVars, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.OutputDir != "" {
		if r.System.OutputWritable {
			fmt.Fprintf(w, "  [OK] Output directory: %s\n", filepath.Clean(r.System.OutputDir))
		} else {
			fmt.Fprintf(w, "  [ERROR] Output directory: %s not writable\n", r.System.OutputDir)
		}
	}
	if r.System.AddrAvailable {
		fmt.Fprintln(w, "  [OK] Server address: available")
	} else {
		fmt.Fprintln(w, "  [WARN] Server address: in use")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
