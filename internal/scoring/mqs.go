// Package scoring computes the momentum, trigger aggregation and confidence scores of a token.
package scoring

import (
	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/domain"
)

// Benchmarks at which the volume and transaction components saturate.
const (
	VolumeBenchmark = 10000 // quote-currency volume over 1h
	TxBenchmark     = 500   // transactions over 24h
)

// MQS component weights; they sum to 100.
const (
	BuyPressureWeight = 40
	VolumeWeight      = 30
	TxVelocityWeight  = 30
)

var one = decimal.NewFromInt(1)

// MQS returns the momentum quality score in [0,100]:
// 40·buy_ratio + 30·min(vol1h/10000, 1) + 30·min(tx24h/500, 1), truncated.
// Negative inputs count as zero; buy_ratio is zero when there are no transactions.
func MQS(p *domain.PairData) int {
	if p == nil {
		return 0
	}

	buys := decimal.NewFromInt(max(p.Buys24h, 0))
	sells := decimal.NewFromInt(max(p.Sells24h, 0))
	total := buys.Add(sells)

	buyRatio := decimal.Zero
	if total.IsPositive() {
		buyRatio = buys.Div(total)
	}

	volume := decimal.NewFromFloat(max(p.Volume1h, 0))
	volumeScore := decimal.Min(volume.Div(decimal.NewFromInt(VolumeBenchmark)), one)
	txScore := decimal.Min(total.Div(decimal.NewFromInt(TxBenchmark)), one)

	score := buyRatio.Mul(decimal.NewFromInt(BuyPressureWeight)).
		Add(volumeScore.Mul(decimal.NewFromInt(VolumeWeight))).
		Add(txScore.Mul(decimal.NewFromInt(TxVelocityWeight)))

	return Clamp(int(score.IntPart()), 0, 100)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
