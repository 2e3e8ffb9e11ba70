package statsd_test

import (
	"bytes"
	"testing"

	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/common/metrics/statsd"
	kitstatsd "github.com/go-kit/kit/metrics/statsd"
	"github.com/stretchr/testify/require"
)

func TestStatsdCounterWithLabels(t *testing.T) {
	s := kitstatsd.New("", nil)
	provider := &statsd.Provider{Statsd: s}

	counter := provider.NewCounter(metrics.CounterOpts{
		Namespace:    "x509cert",
		Name:         "decode_total",
		LabelNames:   []string{"outcome"},
		StatsdFormat: "%{#fqname}.%{outcome}",
	})
	require.Panics(t, func() { counter.Add(1) })

	counter.With("outcome", "success").Add(1)

	buf := &bytes.Buffer{}
	_, err := s.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, "x509cert.decode_total.success:1.000000|c\n", buf.String())
}

func TestStatsdHistogram(t *testing.T) {
	s := kitstatsd.New("certdump.", nil)
	provider := &statsd.Provider{Statsd: s}

	histogram := provider.NewHistogram(metrics.HistogramOpts{
		Namespace: "x509cert",
		Name:      "decode_duration",
	})
	histogram.Observe(3)

	buf := &bytes.Buffer{}
	_, err := s.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, "certdump.x509cert.decode_duration:3.000000|ms\n", buf.String())
}

func TestStatsdGauge(t *testing.T) {
	s := kitstatsd.New("", nil)
	provider := &statsd.Provider{Statsd: s}

	gauge := provider.NewGauge(metrics.GaugeOpts{
		Namespace: "x509cert",
		Subsystem: "cache",
		Name:      "entries",
	})
	gauge.Set(7)

	buf := &bytes.Buffer{}
	_, err := s.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, "x509cert.cache.entries:7.000000|g\n", buf.String())
}
