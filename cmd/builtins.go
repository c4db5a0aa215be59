package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pegsh/pegsh/commands"
	"github.com/spf13/cobra"
)

// builtinsCmd lists every program the sandbox implements
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands for the sandbox.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var builtins []string

		for _, cmd := range commands.ListBuiltinCommands() {
			builtins = append(builtins, strings.Join(cmd.Names, ", "))
		}

		for name := range commands.AllBuiltins {
			builtins = append(builtins, "shell:"+name)
		}

		sort.Strings(builtins)

		for _, v := range builtins {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
