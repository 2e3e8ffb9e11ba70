package disabled_test

import (
	"testing"

	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/common/metrics/disabled"
	"github.com/stretchr/testify/require"
)

func TestDisabledProvider(t *testing.T) {
	var provider metrics.Provider = &disabled.Provider{}

	counter := provider.NewCounter(metrics.CounterOpts{Name: "decode_total", LabelNames: []string{"outcome"}})
	require.NotPanics(t, func() { counter.With("outcome", "success").Add(1) })

	gauge := provider.NewGauge(metrics.GaugeOpts{Name: "cache_entries"})
	require.NotPanics(t, func() {
		gauge.Add(1)
		gauge.With().Set(3)
	})

	histogram := provider.NewHistogram(metrics.HistogramOpts{Name: "decode_duration"})
	require.NotPanics(t, func() { histogram.With().Observe(0.2) })
}
