// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	s, ok := current().(*promSink)
	require.True(t, ok)
	families, err := s.registry.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestNoopMeters(t *testing.T) {
	setSink(noopSink{})
	t.Cleanup(func() { setSink(noopSink{}) })

	for _, m := range []any{
		Counter("c"),
		CounterVec("c", nil),
		Gauge("g"),
		Histogram("h", nil),
		HistogramVec("h", nil, nil),
	} {
		assert.IsType(t, noopMeter{}, m)
	}
	CounterVec("c", []string{"a"}).AddWithLabel(1, map[string]string{"unknown": "label"})

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromMetrics(t *testing.T) {
	setSink(newPromSink())
	t.Cleanup(func() { setSink(noopSink{}) })

	Counter("count1").Add(1)
	n := rand.N(100) + 1
	for range n {
		Counter("count2").Add(1)
	}

	votes := CounterVec("votes", []string{"option"})
	hist := HistogramVec("latency", []string{"option"}, BucketHTTPReqs)
	total := 0
	for i := range rand.N(100) + 2 {
		labels := map[string]string{"option": strconv.Itoa(i % 2)}
		votes.AddWithLabel(int64(i), labels)
		hist.ObserveWithLabels(int64(i), labels)
		total += i
	}

	pending := Gauge("pending")
	pending.Set(10)
	pending.Add(-3)
	Histogram("read", nil).Observe(42)

	m := gather(t)
	assert.Equal(t, float64(1), m["pollbet_count1"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(n), m["pollbet_count2"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(total),
		m["pollbet_votes"].Metric[0].GetCounter().GetValue()+m["pollbet_votes"].Metric[1].GetCounter().GetValue())
	assert.Equal(t, float64(total),
		m["pollbet_latency"].Metric[0].GetHistogram().GetSampleSum()+m["pollbet_latency"].Metric[1].GetHistogram().GetSampleSum())
	assert.Equal(t, float64(7), m["pollbet_pending"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(42), m["pollbet_read"].Metric[0].GetHistogram().GetSampleSum())
	assert.Contains(t, m, "go_goroutines")

	// same name, same meter
	assert.Same(t, Counter("count1"), Counter("count1"))

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pollbet_count2 "+strconv.Itoa(n))
}

func TestLazyLoading(t *testing.T) {
	setSink(noopSink{})
	t.Cleanup(func() { setSink(noopSink{}) })

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	InitializePrometheusMetrics()
	s := current()
	InitializePrometheusMetrics()
	assert.Same(t, s, current())

	assert.IsType(t, &promGauge{}, lazyGauge())
	assert.IsType(t, &promCounter{}, lazyCounter())
	assert.IsType(t, &promCounterVec{}, lazyCounterVec())
	assert.IsType(t, &promHistogram{}, lazyHistogram())
	assert.IsType(t, &promHistogramVec{}, lazyHistogramVec())
	assert.Same(t, lazyCounter(), lazyCounter())
}
