// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/vechain/devnode/metrics"

var (
	metricBlocksMined = metrics.LazyLoadCounter("node_blocks_mined_count")
	metricDroppedTxs  = metrics.LazyLoadCounter("node_dropped_txs_count")
	metricFaults      = metrics.LazyLoadCounter("node_invariant_faults_count")
	metricCommands    = metrics.LazyLoadCounterVec("node_commands_count", []string{"cmd"})
	metricBestBlock   = metrics.LazyLoadGauge("node_best_block_number")
)
