package main

import (
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
	logJSON    bool
}

func RootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "lessonflow",
		Short:         "Run declarative LLM content-generation workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "settings file (default: lessonflow.yaml in . or $HOME/.lessonflow)")
	pf.StringVar(&g.envFile, "env-file", "", "dotenv file (default: .env when present)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	pf.BoolVar(&g.logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(
		RunCmd(g),
		ResumeCmd(g),
		ListWorkflowsCmd(g),
		ListPromptsCmd(g),
	)

	return root
}
