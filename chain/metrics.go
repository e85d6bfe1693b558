// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/thetatoken/tdrop-governance/metrics"

var (
	metricBlockHeight    = metrics.LazyLoadGauge("chain_block_height")
	metricCommitDuration = metrics.LazyLoadHistogram("chain_commit_duration_ms", metrics.BucketCommit)
	metricEvents         = metrics.LazyLoadCounter("chain_events_count")
)
