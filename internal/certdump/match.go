package certdump

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("certificate does not match")

func newMatchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "match <file> <hostname>",
		Short: "Check whether a certificate vouches for a DNS name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := e.loadOne(cmd, args[0])
			if err != nil {
				return err
			}
			if !cert.MatchesDNSName(args[1]) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s does not match %s\n", args[0], args[1])
				return errNoMatch
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s matches %s\n", args[0], args[1])
			return nil
		},
	}
}
