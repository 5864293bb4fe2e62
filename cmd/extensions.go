package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extensionsCmd)
}

var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "List the installed extensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}

		for _, name := range sess.loader.Extensions() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
