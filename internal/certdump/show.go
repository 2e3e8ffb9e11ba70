package certdump

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the canonical text form of every certificate in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			certs, err := e.loadAll(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, cert := range certs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, cert.String())
			}
			return nil
		},
	}
}
