// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/vechain/devnode/metrics"

var metricBlockRepositoryCounter = metrics.LazyLoadCounterVec("block_repository_count", []string{"type"})
