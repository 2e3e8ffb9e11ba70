// Package certdump 实现 certdump 命令行工具：解码证书并以文本或 JSON 的形式展示证书中的信息。
package certdump

import (
	"fmt"
	"io"
	"os"

	"github.com/11090815/x509cert/common/hlogging"
	hlmetrics "github.com/11090815/x509cert/common/hlogging/metrics"
	"github.com/11090815/x509cert/core/config"
	"github.com/11090815/x509cert/x509cert"
	"github.com/11090815/x509cert/x509cert/cache"
	"github.com/spf13/cobra"
)

var logger = hlogging.MustGetLogger("certdump")

// env 保存一次命令执行期间共享的解码器与指标资源。
type env struct {
	configPath  string
	metricsAddr string
	strict      bool

	conf     *config.Config
	decoder  *x509cert.Decoder
	cached   cache.Decoder
	shutdown func() error
}

// NewRootCmd 构造完整的命令树，每次调用都返回互不影响的一组命令。
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "certdump",
		Short: "Decode and inspect X.509 certificates",
		Long:  "Decodes DER or PEM encoded X.509 certificates and prints the information they carry. Signatures are not verified.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.teardown()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "Path to the YAML config file")
	root.PersistentFlags().StringVar(&e.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while running")
	root.PersistentFlags().BoolVar(&e.strict, "strict", false, "Reject fields that are not allowed by the certificate version")

	root.AddCommand(
		newShowCmd(e),
		newInfoCmd(e),
		newMatchCmd(e),
		newCompareCmd(e),
		newSortCmd(e),
	)
	return root
}

func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func (e *env) setup(cmd *cobra.Command) error {
	conf := config.Default()
	if e.configPath != "" {
		var err error
		if conf, err = config.Load(e.configPath); err != nil {
			return err
		}
	}
	if e.strict {
		conf.Decoder.Strict = true
	}
	e.conf = conf

	spec := conf.Logging.Spec
	if os.Getenv("X509CERT_LOGGING_SPEC") != "" {
		spec = ""
	}
	hlogging.Init(hlogging.Config{
		Format:  conf.Logging.Format,
		LogSpec: spec,
		Writer:  cmd.ErrOrStderr(),
	})

	provider, shutdown, err := newMetricsProvider(conf.Metrics, e.metricsAddr)
	if err != nil {
		return err
	}
	e.shutdown = shutdown
	hlogging.SetObserver(hlmetrics.NewObserver(provider))

	e.decoder = x509cert.NewDecoder(x509cert.Options{Strict: conf.Decoder.Strict}, provider)
	e.cached = e.decoder
	if conf.Cache.Size > 0 {
		if e.cached, err = cache.New(e.decoder, conf.Cache.Size, provider); err != nil {
			return err
		}
	}
	logger.Debugf("certdump configured: strict=%t, cache size=%d, metrics provider=%s.", conf.Decoder.Strict, conf.Cache.Size, conf.Metrics.Provider)
	return nil
}

func (e *env) teardown() error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown()
}

// readInput 读取文件内容，路径为 "-" 时读取标准输入。
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return raw, nil
}

// loadOne 通过缓存解码一张证书。
func (e *env) loadOne(cmd *cobra.Command, path string) (*x509cert.Certificate, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	cert, err := e.cached.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cert, nil
}

// loadAll 解码文件中的所有证书，文件可以是 PEM 证书包。
func (e *env) loadAll(cmd *cobra.Command, path string) ([]*x509cert.Certificate, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	certs, err := e.decoder.DecodeBundle(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return certs, nil
}
