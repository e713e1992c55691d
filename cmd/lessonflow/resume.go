package main

import (
	"github.com/spf13/cobra"

	"github.com/spetersoncode/lessonflow/engine"
)

func ResumeCmd(g *globalFlags) *cobra.Command {
	var fromStep string
	var outputJSON, dryRun bool
	cmd := &cobra.Command{
		Use:   "resume <sessionId>",
		Short: "Resume an interrupted or failed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, appOptions{dryRun: dryRun, stderr: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			eng := engine.New(a.deps(), a.sessions, a.catalog, a.engineOptions()...)
			res, err := eng.Resume(a.context(cmd), args[0], fromStep)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), res, outputJSON)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&fromStep, "from-step", "", "re-run from this step, discarding later results")
	fl.BoolVar(&outputJSON, "output-json", false, "print the run summary as JSON")
	fl.BoolVar(&dryRun, "dry-run", false, "serve every model with the local echo provider")

	return cmd
}
