// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"fmt"
	"slices"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// Pair is one (group key, identifier) assignment.
type Pair struct {
	Key string
	ID  string
}

// Pairs returns the buckets a record belongs to under cfg.
//
//   - column: one pair keyed by the record's value for cfg.Column.
//   - flags: one pair per non-identifier field whose raw value equals the
//     sentinel, keyed by the field name. A record with k such fields
//     yields k pairs; a record with none yields nothing.
//   - split: one pair keyed by MatchedKey when cfg.Column equals the
//     sentinel, otherwise by UnmatchedKey.
func Pairs(rec types.Record, cfg types.GroupConfig) ([]Pair, error) {
	switch cfg.By {
	case types.GroupByColumn:
		v, ok := rec.Get(cfg.Column)
		if !ok {
			return nil, fmt.Errorf("%s:%d: %w: missing group column %q", rec.Source, rec.Line, types.ErrMalformedInput, cfg.Column)
		}
		return []Pair{{Key: v.String(), ID: rec.ID}}, nil

	case types.GroupByFlags:
		sentinel := cfg.Sentinel
		if sentinel == "" {
			sentinel = boolTrue
		}
		var pairs []Pair
		for _, nv := range rec.Values {
			if nv.Name == rec.IDField || slices.Contains(cfg.Exclude, nv.Name) {
				continue
			}
			if nv.Value.Raw == sentinel {
				pairs = append(pairs, Pair{Key: nv.Name, ID: rec.ID})
			}
		}
		return pairs, nil

	case types.GroupBySplit:
		v, ok := rec.Get(cfg.Column)
		if !ok {
			return nil, fmt.Errorf("%s:%d: %w: missing split column %q", rec.Source, rec.Line, types.ErrMalformedInput, cfg.Column)
		}
		if v.Raw == cfg.Sentinel {
			return []Pair{{Key: cfg.MatchedKey, ID: rec.ID}}, nil
		}
		return []Pair{{Key: cfg.UnmatchedKey, ID: rec.ID}}, nil

	default:
		return nil, fmt.Errorf("unknown grouping %q", cfg.By)
	}
}
