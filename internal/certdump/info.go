package certdump

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/11090815/x509cert/bccsp"
	"github.com/11090815/x509cert/x509cert"
	"github.com/spf13/cobra"
)

// certInfo 是 info 命令输出的证书摘要。
type certInfo struct {
	Version            int      `json:"version"`
	SerialNumber       string   `json:"serial_number"`
	Subject            string   `json:"subject"`
	Issuer             string   `json:"issuer"`
	NotBefore          string   `json:"not_before"`
	NotAfter           string   `json:"not_after"`
	SelfSigned         bool     `json:"self_signed"`
	IsCA               bool     `json:"is_ca"`
	PathLimit          *uint64  `json:"path_limit,omitempty"`
	KeyUsage           []string `json:"key_usage,omitempty"`
	ExtKeyUsage        []string `json:"ext_key_usage,omitempty"`
	Policies           []string `json:"policies,omitempty"`
	SubjectAltNames    []string `json:"subject_alt_names,omitempty"`
	IssuerAltNames     []string `json:"issuer_alt_names,omitempty"`
	SubjectKeyID       string   `json:"subject_key_id,omitempty"`
	AuthorityKeyID     string   `json:"authority_key_id,omitempty"`
	OCSPResponder      string   `json:"ocsp_responder,omitempty"`
	CAIssuers          []string `json:"ca_issuers,omitempty"`
	CRLDistribution    []string `json:"crl_distribution_points,omitempty"`
	SignatureAlgorithm string   `json:"signature_algorithm"`
	FingerprintSHA256  string   `json:"fingerprint_sha256"`
}

func newCertInfo(cert *x509cert.Certificate) (*certInfo, error) {
	fingerprint, err := cert.Fingerprint(&bccsp.SHA256Opts{})
	if err != nil {
		return nil, err
	}
	info := &certInfo{
		Version:            cert.Version(),
		SerialNumber:       fmt.Sprintf("%X", cert.SerialNumber()),
		Subject:            cert.SubjectDN().String(),
		Issuer:             cert.IssuerDN().String(),
		NotBefore:          cert.StartTime(),
		NotAfter:           cert.EndTime(),
		SelfSigned:         cert.IsSelfSigned(),
		IsCA:               cert.IsCACert(),
		KeyUsage:           cert.Constraints().Labels(),
		ExtKeyUsage:        cert.ExConstraints(),
		Policies:           cert.Policies(),
		SubjectAltNames:    altNames(cert.SubjectAltName()),
		IssuerAltNames:     altNames(cert.IssuerAltName()),
		SubjectKeyID:       fmt.Sprintf("%X", cert.SubjectKeyID()),
		AuthorityKeyID:     fmt.Sprintf("%X", cert.AuthorityKeyID()),
		OCSPResponder:      cert.OCSPResponder(),
		CAIssuers:          cert.CAIssuers(),
		CRLDistribution:    cert.CRLDistributionPoints(),
		SignatureAlgorithm: cert.SignatureAlgorithm().Name(),
		FingerprintSHA256:  fingerprint,
	}
	if info.IsCA {
		limit := cert.PathLimit()
		info.PathLimit = &limit
	}
	return info, nil
}

func altNames(an x509cert.AlternativeName) []string {
	var names []string
	for _, attr := range an {
		names = append(names, attr.Type+":"+attr.Value)
	}
	return names
}

func newInfoCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print a summary of a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := e.loadOne(cmd, args[0])
			if err != nil {
				return err
			}
			info, err := newCertInfo(cert)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(out, "Subject:     %s\n", info.Subject)
			fmt.Fprintf(out, "Issuer:      %s\n", info.Issuer)
			fmt.Fprintf(out, "Serial:      %s\n", info.SerialNumber)
			fmt.Fprintf(out, "Validity:    %s - %s\n", info.NotBefore, info.NotAfter)
			fmt.Fprintf(out, "CA:          %t\n", info.IsCA)
			if len(info.KeyUsage) > 0 {
				fmt.Fprintf(out, "Key usage:   %s\n", strings.Join(info.KeyUsage, ", "))
			}
			if len(info.SubjectAltNames) > 0 {
				fmt.Fprintf(out, "Alt names:   %s\n", strings.Join(info.SubjectAltNames, ", "))
			}
			fmt.Fprintf(out, "Fingerprint: %s\n", info.FingerprintSHA256)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
