package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xcawolfe-amzn/tripwire/internal/audit"
	"github.com/xcawolfe-amzn/tripwire/internal/classify"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/settings"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

var (
	validateConfig string
	validateJSON   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Statically check a hooks configuration for recursion hazards",
	Long: `Check every hook command under the sensitive triggers (Stop,
PostToolUse, SessionStart) against the command classifier, without
executing anything.

Run this before arming a new hooks configuration. Exit code is non-zero
if any hard error is found.

Examples:
  tw validate                          # audit the resolved settings.json
  tw validate --config ./settings.json # audit an explicit file
  tw validate --json                   # machine-readable findings`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateConfig, "config", "", "Path to settings.json (default: resolved)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output as JSON")
}

// validateFinding is the JSON shape for one finding.
type validateFinding struct {
	Trigger string `json:"trigger"`
	Matcher string `json:"matcher,omitempty"`
	Command string `json:"command"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// validateOutput is the JSON output structure.
type validateOutput struct {
	Path     string            `json:"path"`
	Checked  int               `json:"checked"`
	Errors   []validateFinding `json:"errors"`
	Warnings []validateFinding `json:"warnings"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := validateConfig
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := settings.Load(path)
	if err != nil {
		return fmt.Errorf("loading hooks config: %w", err)
	}

	limits, err := config.Load()
	if err != nil {
		style.Warnf("%v (using default limits)", err)
	}

	report := audit.Validate(cfg, classify.New(limits))

	if validateJSON {
		if err := outputValidateJSON(path, report); err != nil {
			return err
		}
	} else {
		outputValidateHuman(path, report)
	}

	if report.HasErrors() {
		return &exitError{code: 1}
	}
	return nil
}

func outputValidateJSON(path string, report *audit.Report) error {
	out := validateOutput{
		Path:     path,
		Checked:  report.Checked,
		Errors:   []validateFinding{},
		Warnings: []validateFinding{},
	}
	for _, f := range report.Errors {
		out.Errors = append(out.Errors, validateFinding{
			Trigger: f.Trigger, Matcher: f.Matcher, Command: f.Command,
			Rule: f.Kind.String(), Message: f.Message,
		})
	}
	for _, f := range report.Warnings {
		out.Warnings = append(out.Warnings, validateFinding{
			Trigger: f.Trigger, Matcher: f.Matcher, Command: f.Command,
			Rule: f.Kind.String(), Message: f.Message,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputValidateHuman(path string, report *audit.Report) {
	fmt.Printf("%s %s\n\n", style.Bold.Render("Auditing"), style.Dim.Render(path))

	for _, f := range report.Errors {
		style.Criticalf("[%s] %s: %s", f.Kind, f.Trigger, f.Message)
	}
	for _, f := range report.Warnings {
		style.Warnf("[%s] %s: %s", f.Kind, f.Trigger, f.Message)
	}

	fmt.Println()
	switch {
	case report.HasErrors():
		style.Errorf("%d error(s), %d warning(s) in %d command(s)",
			len(report.Errors), len(report.Warnings), report.Checked)
	case len(report.Warnings) > 0:
		style.Warnf("no errors, %d warning(s) in %d command(s)",
			len(report.Warnings), report.Checked)
	default:
		style.Successf("%d hook command(s) checked, no hazards found", report.Checked)
	}
}
