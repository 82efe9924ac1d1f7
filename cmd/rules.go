package cmd

import (
	"github.com/Ruchi0214/Regexia/internal/rules"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadDeps("stderr")
			if err != nil {
				return err
			}
			registry, err := rules.NewRegistry(cfg.RuleSpecs())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Rule", "Kind"})
			for i, name := range registry.Names() {
				rule, _ := registry.Lookup(name)
				t.AppendRow(table.Row{i + 1, rule.Name, rule.Kind.String()})
			}
			t.Render()
			return nil
		},
	}
}
