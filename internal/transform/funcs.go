// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/dataset-tools/pkg/types"
)

// boolTrue is the literal read as true by the bool transform and matched by
// the default flag sentinel.
const boolTrue = "True"

// step is one compiled transform. Steps are pure: the output depends only
// on the input value.
type step func(types.Value) (types.Value, error)

func compileStep(spec types.TransformSpec) (step, error) {
	switch spec.Kind {
	case types.TransformIdentity, "":
		return func(v types.Value) (types.Value, error) { return v, nil }, nil

	case types.TransformTrimSuffix:
		return stringStep(func(s string) string { return strings.TrimSuffix(s, spec.Arg) }), nil

	case types.TransformTrimPrefix:
		return stringStep(func(s string) string { return strings.TrimPrefix(s, spec.Arg) }), nil

	case types.TransformReplace:
		if spec.Arg == "" {
			return nil, fmt.Errorf("replace transform needs a search string")
		}
		return stringStep(func(s string) string { return strings.ReplaceAll(s, spec.Arg, spec.With) }), nil

	case types.TransformExtract:
		re, err := regexp.Compile(spec.Arg)
		if err != nil {
			return nil, fmt.Errorf("compiling extract pattern %q: %w", spec.Arg, err)
		}
		return stringStep(func(s string) string { return extract(re, s) }), nil

	case types.TransformInt:
		return func(v types.Value) (types.Value, error) {
			n, err := strconv.Atoi(strings.TrimSpace(v.Raw))
			if err != nil {
				return v, fmt.Errorf("%w: %q is not an integer", types.ErrFormat, v.Raw)
			}
			return types.Value{Kind: types.KindInt, Raw: v.Raw, Int: n}, nil
		}, nil

	case types.TransformBool:
		return func(v types.Value) (types.Value, error) {
			return types.Value{Kind: types.KindBool, Raw: v.Raw, Bool: v.Raw == boolTrue}, nil
		}, nil

	default:
		return nil, fmt.Errorf("unknown transform %q", spec.Kind)
	}
}

// stringStep lifts a string function into a step. The result is a string
// value even if the input had been coerced.
func stringStep(fn func(string) string) step {
	return func(v types.Value) (types.Value, error) {
		return types.Value{Kind: types.KindString, Raw: fn(v.Raw)}, nil
	}
}

// extract returns the first capture group of the leftmost match, or the
// whole match when the pattern has no groups. No match yields "".
func extract(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	switch {
	case m == nil:
		return ""
	case len(m) > 1:
		return m[1]
	default:
		return m[0]
	}
}

func compileChain(specs []types.TransformSpec) ([]step, error) {
	steps := make([]step, 0, len(specs))
	for _, spec := range specs {
		s, err := compileStep(spec)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func runChain(steps []step, raw string) (types.Value, error) {
	v := types.Value{Kind: types.KindString, Raw: raw}
	for _, s := range steps {
		var err error
		if v, err = s(v); err != nil {
			return v, err
		}
	}
	return v, nil
}
