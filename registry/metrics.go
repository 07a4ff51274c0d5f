// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import "github.com/betcoin/pollbet/metrics"

var (
	metricLookups       = metrics.LazyLoadCounterVec("registry_lookups_count", []string{"result"})
	metricWrites        = metrics.LazyLoadCounterVec("registry_writes_count", []string{"kind", "result"})
	metricReconciles    = metrics.LazyLoadCounterVec("registry_reconcile_count", []string{"outcome"})
	metricReadDuration  = metrics.LazyLoadHistogram("registry_read_duration_ms", metrics.BucketHTTPReqs)
	metricPendingAction = metrics.LazyLoadGauge("registry_pending_actions")
)
