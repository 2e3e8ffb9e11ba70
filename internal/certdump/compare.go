package certdump

import (
	"fmt"
	"sort"

	"github.com/11090815/x509cert/bccsp"
	"github.com/11090815/x509cert/x509cert"
	"github.com/spf13/cobra"
)

func newCompareCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare two certificates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.loadOne(cmd, args[0])
			if err != nil {
				return err
			}
			b, err := e.loadOne(cmd, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "equal: %t\n", a.Equal(b))
			fmt.Fprintf(out, "order: %d\n", x509cert.Compare(a, b))
			return nil
		},
	}
}

// newSortCmd 按照证书的全序关系输出所有证书，每张证书占一行。
func newSortCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <file>...",
		Short: "Order certificates by signature and canonical text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type entry struct {
				path string
				cert *x509cert.Certificate
			}
			var entries []entry
			for _, path := range args {
				certs, err := e.loadAll(cmd, path)
				if err != nil {
					return err
				}
				for _, cert := range certs {
					entries = append(entries, entry{path: path, cert: cert})
				}
			}
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].cert.Less(entries[j].cert)
			})

			out := cmd.OutOrStdout()
			for _, en := range entries {
				fingerprint, err := en.cert.Fingerprint(&bccsp.SHA256Opts{})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", fingerprint, en.path, en.cert.SubjectDN())
			}
			return nil
		},
	}
}
