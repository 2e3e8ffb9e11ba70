package x509cert

import (
	"errors"

	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/vars"
)

var (
	DecodeTotalOpts = metrics.CounterOpts{
		Namespace:    "x509cert",
		Subsystem:    "decoder",
		Name:         "decode_total",
		Help:         "The number of certificates decoded, labeled by outcome.",
		LabelNames:   []string{"outcome"},
		StatsdFormat: "%{#fqname}.%{outcome}",
	}

	DecodeDurationOpts = metrics.HistogramOpts{
		Namespace:    "x509cert",
		Subsystem:    "decoder",
		Name:         "decode_duration",
		Help:         "The time to decode a certificate in seconds.",
		Buckets:      []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		StatsdFormat: "%{#fqname}",
	}
)

type Metrics struct {
	DecodeTotal    metrics.Counter
	DecodeDuration metrics.Histogram
}

func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		DecodeTotal:    p.NewCounter(DecodeTotalOpts),
		DecodeDuration: p.NewHistogram(DecodeDurationOpts),
	}
}

// outcomeOf 把解码结果归类为指标的标签值。
func outcomeOf(err error) string {
	var (
		badTag     vars.ErrorBadTag
		malformed  vars.ErrorMalformed
		version    vars.ErrorUnknownVersion
		mismatch   vars.ErrorAlgorithmMismatch
		trailing   vars.ErrorTrailingData
		critical   vars.ErrorUnknownCriticalExtension
		duplicate  vars.ErrorDuplicateExtension
		strictness vars.ErrorVersionField
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &badTag):
		return "bad_tag"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &version):
		return "unknown_version"
	case errors.As(err, &mismatch):
		return "algorithm_mismatch"
	case errors.As(err, &trailing):
		return "trailing_data"
	case errors.As(err, &critical):
		return "unknown_critical_extension"
	case errors.As(err, &duplicate):
		return "duplicate_extension"
	case errors.As(err, &strictness):
		return "version_field"
	}
	return "pem"
}
