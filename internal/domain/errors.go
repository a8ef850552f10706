package domain

import "errors"

// ErrAssetNotFound means no market data resolved for an item or collection.
// It propagates to valuation-query callers; everything downstream degrades to
// documented defaults instead.
var ErrAssetNotFound = errors.New("no market data found for asset")

// ErrUnsupportedCondition marks condition types the evaluator does not
// implement. The rule engine treats it as "not eligible" rather than failing,
// but callers can still distinguish it from a plain false.
var ErrUnsupportedCondition = errors.New("condition type not supported")

// ErrMalformedCondition marks a condition whose value does not fit its
// operator (e.g. "between" without a 2-element range). Evaluates false.
var ErrMalformedCondition = errors.New("malformed condition")
