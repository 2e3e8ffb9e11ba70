package internal_test

import (
	"testing"

	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/common/metrics/internal"
	"github.com/stretchr/testify/require"
)

func TestNamerFormat(t *testing.T) {
	namer := internal.NewCounterNamer(metrics.CounterOpts{
		Namespace:    "x509cert",
		Subsystem:    "cache",
		Name:         "lookups_total",
		StatsdFormat: "%{#namespace}.%{#subsystem}.%{#name}.%{result}",
		LabelNames:   []string{"result"},
	})

	require.Equal(t, "x509cert.cache.lookups_total.hit", namer.Format("result", "hit"))
	require.Equal(t, "x509cert.cache.lookups_total.a_b_c_d", namer.Format("result", "a.b|c:d"))
	require.Equal(t, "x509cert.cache.lookups_total.unknown", namer.Format("result"))
	require.Panics(t, func() { namer.Format("outcome", "hit") })
}

func TestFullyQualifiedName(t *testing.T) {
	tests := []struct {
		namespace, subsystem, name string
		expected                   string
	}{
		{"x509cert", "decoder", "decode_total", "x509cert.decoder.decode_total"},
		{"x509cert", "", "decode_total", "x509cert.decode_total"},
		{"", "decoder", "decode_total", "decoder.decode_total"},
		{"", "", "decode_total", "decode_total"},
	}

	for _, tt := range tests {
		namer := internal.NewHistogramNamer(metrics.HistogramOpts{Namespace: tt.namespace, Subsystem: tt.subsystem, Name: tt.name})
		require.Equal(t, tt.expected, namer.FullyQualifiedName())
	}
}

func TestNamerMissingLabelPanics(t *testing.T) {
	namer := internal.NewGaugeNamer(metrics.GaugeOpts{
		Name:         "entries",
		StatsdFormat: "%{#fqname}.%{shard}",
		LabelNames:   []string{"shard", "kind"},
	})
	require.Panics(t, func() { namer.Format("kind", "x") })
}
