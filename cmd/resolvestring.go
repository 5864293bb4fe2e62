package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bno1/X4FProjector/internal/lang"
)

func init() {
	rootCmd.AddCommand(resolveStringCmd)
}

var resolveStringCmd = &cobra.Command{
	Use:   "resolve-string [strings...]",
	Short: "Resolve language-dependent strings",
	Long: `Resolve-string expands the '{page,text}' template fields of each
argument using the selected language and prints the results, e.g.:

    x4fprojector -g path/to/x4 resolve-string 'This ship is {20101,30302}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}

		for _, s := range args {
			out, err := sess.lang.Resolve(s, lang.ResolveOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}
