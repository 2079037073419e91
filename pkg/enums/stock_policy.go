package enums

import (
	"fmt"
	"strings"
)

// StockPolicy decides what checkout does when a line exceeds stock on hand.
type StockPolicy string

const (
	StockPolicyReject StockPolicy = "reject"
	StockPolicyClamp  StockPolicy = "clamp"
	StockPolicyAllow  StockPolicy = "allow"
)

var validStockPolicies = []StockPolicy{
	StockPolicyReject,
	StockPolicyClamp,
	StockPolicyAllow,
}

// String implements fmt.Stringer.
func (p StockPolicy) String() string {
	return string(p)
}

// IsValid reports whether the value is a known StockPolicy.
func (p StockPolicy) IsValid() bool {
	for _, candidate := range validStockPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseStockPolicy converts raw config input into a StockPolicy.
func ParseStockPolicy(value string) (StockPolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return StockPolicyReject, nil
	}
	for _, candidate := range validStockPolicies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock policy %q", value)
}
