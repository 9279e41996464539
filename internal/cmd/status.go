package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xcawolfe-amzn/tripwire/internal/breaker"
	"github.com/xcawolfe-amzn/tripwire/internal/config"
	"github.com/xcawolfe-amzn/tripwire/internal/hookctx"
	"github.com/xcawolfe-amzn/tripwire/internal/metrics"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
	"github.com/xcawolfe-amzn/tripwire/internal/tui/watch"
)

var (
	statusJSON  bool
	statusWatch bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show hook context, ledger snapshot, and recent guard events",
	Long: `Show the hook context inherited by this process, the execution
ledger for this session, and recently recorded guard decisions.

Examples:
  tw status           # one-shot status
  tw status --json    # machine-readable
  tw status --watch   # live guard-event dashboard`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Live dashboard")
}

// statusOutput is the JSON output structure.
type statusOutput struct {
	InHook    bool                `json:"in_hook"`
	HookType  string              `json:"hook_type,omitempty"`
	Depth     int                 `json:"depth"`
	SessionID string              `json:"session_id"`
	Suppress  bool                `json:"suppress"`
	SafeMode  bool                `json:"safe_mode"`
	Counts    []breaker.HookCount `json:"counts"`
	Events    []metrics.Event     `json:"recent_events"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	recorder := metrics.NewRecorder(config.Dir())

	if statusWatch {
		return watch.Run(recorder)
	}

	limits, _ := config.Load()
	ctx := hookctx.Current()
	b := breaker.New(limits, hookctx.SessionID())
	sessionID, counts := b.Status()

	events, err := recorder.Recent(10)
	if err != nil {
		style.Warnf("reading guard events: %v", err)
	}

	if statusJSON {
		out := statusOutput{
			InHook:    ctx.InHook(),
			HookType:  ctx.HookType,
			Depth:     ctx.Depth,
			SessionID: sessionID,
			Suppress:  ctx.Suppress,
			SafeMode:  ctx.SafeMode,
			Counts:    counts,
			Events:    events,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(style.Bold.Render("Hook context"))
	if ctx.InHook() {
		fmt.Printf("  Hook:    %s\n", style.Bold.Render(ctx.HookType))
		fmt.Printf("  Depth:   %d\n", ctx.Depth)
	} else {
		fmt.Printf("  %s\n", style.Dim.Render("(not inside a hook)"))
	}
	fmt.Printf("  Session: %s\n", style.Dim.Render(sessionID))
	fmt.Printf("  Flags:   suppress=%s safe-mode=%s\n", onOff(ctx.Suppress), onOff(ctx.SafeMode))

	fmt.Println()
	fmt.Println(style.Bold.Render("Execution ledger"))
	if len(counts) == 0 {
		fmt.Printf("  %s\n", style.Dim.Render("(no executions recorded this session)"))
	} else {
		table := style.NewTable(
			style.Column{Name: "Hook", Width: 20},
			style.Column{Name: "Count", Width: 5, Right: true},
		)
		for _, c := range counts {
			table.AddRow(c.HookType, strconv.Itoa(c.Count))
		}
		fmt.Print(table.Render())
	}

	fmt.Println()
	fmt.Println(style.Bold.Render("Recent guard events"))
	if len(events) == 0 {
		fmt.Printf("  %s\n", style.Dim.Render("(none)"))
		return nil
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		width = w
	}
	for _, ev := range events {
		outcome := style.Warning.Render(ev.Outcome)
		if ev.Outcome == "blocked" {
			outcome = style.Error.Render(ev.Outcome)
		}
		command := ev.Command
		if max := width - 45; len(command) > max && max > 10 {
			command = command[:max-1] + "…"
		}
		fmt.Printf("  %s  %s  %-16s %s\n",
			style.Dim.Render(ev.Time.Local().Format("Jan 02 15:04:05")),
			outcome, ev.HookType, command)
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return style.Warning.Render("on")
	}
	return style.Dim.Render("off")
}
