package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PolicyName identifies a purchase costing policy
type PolicyName string

const (
	// PolicyLastPrice overwrites the unit cost with each purchase price
	PolicyLastPrice PolicyName = "last_price"
	// PolicyWeightedAverage blends the purchase price into the stocked cost
	PolicyWeightedAverage PolicyName = "weighted_average"
)

// DefaultPolicy is the costing policy used when none is configured
const DefaultPolicy = PolicyLastPrice

// IsValid checks if the policy name is known
func (p PolicyName) IsValid() bool {
	switch p {
	case PolicyLastPrice, PolicyWeightedAverage:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the policy
func (p PolicyName) Description() string {
	switch p {
	case PolicyLastPrice:
		return "Last price wins: the latest purchase price becomes the unit cost"
	case PolicyWeightedAverage:
		return "Weighted average: unit cost recalculated after each priced purchase"
	default:
		return "Unknown costing policy"
	}
}

// CostingPolicy decides an ingredient's unit cost after a priced purchase
type CostingPolicy interface {
	Name() PolicyName
	// NextCost receives the stock and cost as they were before the purchase
	NextCost(stock float64, cost decimal.Decimal, quantity float64, price decimal.Decimal) decimal.Decimal
}

// LastPriceWins is the default policy
type LastPriceWins struct{}

// Name implements CostingPolicy
func (LastPriceWins) Name() PolicyName { return PolicyLastPrice }

// NextCost implements CostingPolicy
func (LastPriceWins) NextCost(_ float64, _ decimal.Decimal, _ float64, price decimal.Decimal) decimal.Decimal {
	return price
}

// WeightedAverage computes ((stock × cost) + (qty × price)) / (stock + qty)
type WeightedAverage struct{}

// Name implements CostingPolicy
func (WeightedAverage) Name() PolicyName { return PolicyWeightedAverage }

// NextCost implements CostingPolicy
func (WeightedAverage) NextCost(stock float64, cost decimal.Decimal, quantity float64, price decimal.Decimal) decimal.Decimal {
	s := decimal.NewFromFloat(stock)
	q := decimal.NewFromFloat(quantity)
	sum := s.Add(q)
	if !sum.IsPositive() {
		return price
	}
	return s.Mul(cost).Add(q.Mul(price)).DivRound(sum, 4)
}

// PolicyByName returns the policy registered under name. An empty name
// selects the default.
func PolicyByName(name string) (CostingPolicy, error) {
	switch PolicyName(name) {
	case "", PolicyLastPrice:
		return LastPriceWins{}, nil
	case PolicyWeightedAverage:
		return WeightedAverage{}, nil
	default:
		return nil, fmt.Errorf("unknown costing policy %q", name)
	}
}
