package certdump

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/11090815/x509cert/common/hlogging"
	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/common/metrics/disabled"
	"github.com/11090815/x509cert/common/metrics/prometheus"
	"github.com/11090815/x509cert/common/metrics/statsd"
	"github.com/11090815/x509cert/core/config"
	kitstatsd "github.com/go-kit/kit/metrics/statsd"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// kitLogger 把 go-kit 的日志转交给 hlogging。
type kitLogger struct {
	logger *hlogging.HLogger
}

var _ log.Logger = (*kitLogger)(nil)

func (kl *kitLogger) Log(keyvals ...interface{}) error {
	kl.logger.Warnw("statsd", keyvals...)
	return nil
}

func newMetricsProvider(conf config.Metrics, metricsAddr string) (metrics.Provider, func() error, error) {
	switch conf.Provider {
	case "prometheus":
		shutdown := func() error { return nil }
		if metricsAddr != "" {
			var err error
			if _, shutdown, err = serveMetrics(metricsAddr); err != nil {
				return nil, nil, err
			}
		}
		return &prometheus.Provider{}, shutdown, nil

	case "statsd":
		s := kitstatsd.New(conf.Statsd.Prefix, &kitLogger{logger: logger.Named("statsd")})
		ctx, cancel := context.WithCancel(context.Background())
		ticker := time.NewTicker(conf.Statsd.WriteInterval)
		done := make(chan struct{})
		go func() {
			defer close(done)
			s.SendLoop(ctx, ticker.C, conf.Statsd.Network, conf.Statsd.Address)
		}()
		shutdown := func() error {
			ticker.Stop()
			cancel()
			<-done
			return flushStatsd(s, conf.Statsd)
		}
		return &statsd.Provider{Statsd: s}, shutdown, nil

	case "disabled", "":
		return &disabled.Provider{}, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown metrics provider [%s]", conf.Provider)
}

// flushStatsd 在退出之前把尚未发送的指标一次性写出。
func flushStatsd(s *kitstatsd.Statsd, conf config.Statsd) error {
	conn, err := net.Dial(conf.Network, conf.Address)
	if err != nil {
		return fmt.Errorf("failed connecting to statsd at %s: %w", conf.Address, err)
	}
	defer conn.Close()
	if _, err = s.WriteTo(conn); err != nil {
		return fmt.Errorf("failed flushing metrics to statsd: %w", err)
	}
	return nil
}

// serveMetrics 在 addr 上提供 /metrics 接口，返回实际监听的地址。
func serveMetrics(addr string) (net.Addr, func() error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed listening on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Metrics server stopped: %s.", err)
		}
	}()
	logger.Infof("Serving metrics on http://%s/metrics.", listener.Addr())

	return listener.Addr(), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}, nil
}
