package metrics

// Provider 创建三种指标：
//   - Counter 只增不减，适合统计证书解码次数、缓存命中次数；
//   - Gauge 可增可减，适合记录缓存当前的容量；
//   - Histogram 统计取值分布，适合记录解码耗时。
//
// 带有 LabelNames 的指标在使用前必须先调用 With 绑定标签值。
type Provider interface {
	NewCounter(CounterOpts) Counter
	NewGauge(GaugeOpts) Gauge
	NewHistogram(HistogramOpts) Histogram
}

type Counter interface {
	// With 按 "label1", "value1", "label2", "value2" 的形式绑定标签值，返回绑定后的 Counter。
	With(labelValues ...string) Counter
	Add(delta float64)
}

type CounterOpts struct {
	Namespace    string
	Subsystem    string
	Name         string
	Help         string
	LabelNames   []string
	LabelHelp    map[string]string
	StatsdFormat string
}

// Gauge 量表
type Gauge interface {
	With(labelValues ...string) Gauge
	Add(delta float64)
	Set(value float64)
}

type GaugeOpts struct {
	Namespace    string
	Subsystem    string
	Name         string
	Help         string
	LabelNames   []string
	LabelHelp    map[string]string
	StatsdFormat string
}

// Histogram 柱状图
type Histogram interface {
	With(labelValues ...string) Histogram
	Observe(value float64)
}

type HistogramOpts struct {
	Namespace    string
	Subsystem    string
	Name         string
	Help         string
	Buckets      []float64
	LabelNames   []string
	LabelHelp    map[string]string
	StatsdFormat string // statsd：统计
}
