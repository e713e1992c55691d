package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/engine"
	"github.com/spetersoncode/lessonflow/llm"
)

type runFlags struct {
	vars       []string
	sessionID  string
	outputJSON bool
	dryRun     bool
}

func RunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Run a workflow by catalog name or file path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVars(f.vars)
			if err != nil {
				return err
			}
			a, err := newApp(g, appOptions{dryRun: f.dryRun, stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}

			cfg, err := resolveWorkflow(a.catalog, args[0])
			if err != nil {
				return err
			}
			wf, err := engine.NewWorkflow(cfg, a.deps(), a.sessions, a.engineOptions()...)
			if err != nil {
				return err
			}

			res, err := wf.Execute(a.context(cmd), vars, f.sessionID)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res, f.outputJSON)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVar(&f.vars, "var", nil, "initial variable as key=value (repeatable; JSON values are decoded)")
	fl.StringVar(&f.sessionID, "session-id", "", "session id to use instead of a generated one")
	fl.BoolVar(&f.outputJSON, "output-json", false, "print the run summary as JSON")
	fl.BoolVar(&f.dryRun, "dry-run", false, "serve every model with the local echo provider")

	return cmd
}

// resolveWorkflow treats arg as a file when it names one, else as a catalog name.
func resolveWorkflow(catalog engine.Catalog, arg string) (*config.Workflow, error) {
	if ext := filepath.Ext(arg); ext == ".yaml" || ext == ".yml" || ext == ".json" {
		if _, err := os.Stat(arg); err == nil {
			return config.Load(arg)
		}
	}
	return catalog.Get(arg)
}

// parseVars turns key=value pairs into variables. Values that parse as JSON
// keep their JSON type; anything else is a string.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: want key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		vars[key] = v
	}
	return vars, nil
}

type runSummary struct {
	SessionID string          `json:"session_id"`
	Workflow  string          `json:"workflow"`
	Status    string          `json:"status"`
	Steps     []string        `json:"steps"`
	Usage     llm.UsageReport `json:"usage"`
}

func report(w io.Writer, res *engine.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runSummary{
			SessionID: res.SessionID,
			Workflow:  res.Workflow,
			Status:    string(res.Status),
			Steps:     res.Steps,
			Usage:     res.Usage,
		})
	}

	fmt.Fprintln(w, titleStyle.Render(res.Workflow)+" "+statusStyle(string(res.Status)).Render(string(res.Status)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("session"), res.SessionID)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("steps"), strings.Join(res.Steps, ", "))
	t := res.Usage.Totals
	fmt.Fprintf(w, "%s %d requests, %d in / %d out tokens, $%.4f\n",
		labelStyle.Render("usage"), t.Count, t.InputTokens, t.OutputTokens, t.Cost)
	return nil
}
