package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/lessonflow/config"
	"github.com/spetersoncode/lessonflow/prompt"
	"github.com/spetersoncode/lessonflow/settings"
)

func ListWorkflowsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list-workflows",
		Short: "List workflows in the workflows directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(settings.Options{ConfigFile: g.configFile, EnvFile: g.envFile})
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			entries, err := config.NewCatalog(s.Paths.Workflows).List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(w, "no workflows in %s\n", s.Paths.Workflows)
				return nil
			}
			for _, e := range entries {
				switch {
				case e.Err != nil:
					fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(e.Name), errorStyle.Render(e.Err.Error()))
				case e.Description != "":
					fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(e.Name), descStyle.Render(e.Description))
				default:
					fmt.Fprintln(w, titleStyle.Render(e.Name))
				}
			}
			return nil
		},
	}
}

func ListPromptsCmd(g *globalFlags) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "list-prompts",
		Short: "List prompts in the prompts directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(settings.Options{ConfigFile: g.configFile, EnvFile: g.envFile})
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			prompts, err := prompt.NewRegistry(s.Paths.Prompts).List(tag)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range prompts {
				line := titleStyle.Render(p.Path)
				if p.Metadata.Description != "" {
					line += "  " + descStyle.Render(p.Metadata.Description)
				}
				if len(p.Metadata.Tags) > 0 {
					line += "  " + tagStyle.Render("["+strings.Join(p.Metadata.Tags, ", ")+"]")
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only list prompts with this tag")
	return cmd
}
