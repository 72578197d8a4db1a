// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// Compare orders a and b under order. Numeric order compares values that
// parse as numbers by exact magnitude, ranks numbers before non-numbers, and
// breaks ties lexically so distinct strings never compare equal. Integers of
// any length compare exactly.
// Insertion order treats every pair as equal.
func Compare(order types.Order, a, b string) int {
	switch order {
	case types.OrderInsertion:
		return 0
	case types.OrderNumeric:
		na, aok := number(a)
		nb, bok := number(b)
		switch {
		case aok && bok:
			if c := na.Cmp(nb); c != 0 {
				return c
			}
		case aok:
			return -1
		case bok:
			return 1
		}
		return strings.Compare(a, b)
	default:
		return strings.Compare(a, b)
	}
}

// Sort sorts s in place under order. Insertion order leaves s untouched.
func Sort(order types.Order, s []string) {
	if order == types.OrderInsertion {
		return
	}
	slices.SortFunc(s, func(a, b string) int { return Compare(order, a, b) })
}

// number parses s as a base-10 integer, falling back to a finite float.
func number(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return new(big.Rat).SetInt(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return new(big.Rat).SetFloat64(f), true
}

// ValidOrder reports whether order is empty or one of the known orders.
func ValidOrder(order types.Order) bool {
	switch order {
	case "", types.OrderLexical, types.OrderNumeric, types.OrderInsertion:
		return true
	}
	return false
}
