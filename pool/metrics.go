// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"context"
	"math/big"

	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/metrics"
)

var (
	metricOperationCount    = metrics.LazyLoadCounterVec("pool_operations_count", []string{"op", "status"})
	metricOperationDuration = metrics.LazyLoadHistogramVec("pool_operation_duration_ms", []string{"op"}, metrics.BucketOperations)
	metricTotalStaked       = metrics.LazyLoadGauge("pool_total_staked")
	metricAccumulatedFine   = metrics.LazyLoadGauge("pool_accumulated_fine")
	metricRewardProduced    = metrics.LazyLoadGauge("pool_reward_produced")
	metricStateCache        = metrics.LazyLoadGaugeVec("pool_state_cache", []string{"event"})
	metricStateCacheHitRate = metrics.LazyLoadGauge("pool_state_cache_hit_rate_permille")

	// token amounts are reported in whole tokens of 18 decimals
	tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

func operationStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case reverts.IsRevertErr(err):
		return "reverted"
	default:
		return "error"
	}
}

func wholeTokens(amount *big.Int) int64 {
	if amount == nil {
		return 0
	}
	v := new(big.Int).Quo(amount, tokenUnit)
	if !v.IsInt64() {
		return int64(^uint64(0) >> 1)
	}
	return v.Int64()
}

// RunMetrics refreshes the pool gauges after every committed operation, until ctx is done.
func (p *Pool) RunMetrics(ctx context.Context) {
	if !metrics.Enabled() {
		return
	}
	for {
		changed := p.Changed()
		p.updateGauges()
		select {
		case <-ctx.Done():
			return
		case <-changed:
		}
	}
}

func (p *Pool) updateGauges() {
	info, err := p.PoolInfo()
	if err != nil {
		logger.Warn("failed to read pool info", "err", err)
		return
	}
	metricTotalStaked().Set(wholeTokens(info.TotalStaked))
	metricAccumulatedFine().Set(wholeTokens(info.AccumulatedFine))
	metricRewardProduced().Set(wholeTokens(info.RewardProduced))

	stats := p.cacheStats()
	metricStateCache().SetWithLabel(stats.Hit, map[string]string{"event": "hit"})
	metricStateCache().SetWithLabel(stats.Miss, map[string]string{"event": "miss"})
	metricStateCacheHitRate().Set(stats.HitRate)
	if stats.Changed {
		logger.Debug("state cache stats", "hit", stats.Hit, "miss", stats.Miss, "rate", stats.HitRate)
	}
}

func (p *Pool) cacheStats() cache.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.CacheStats()
}
