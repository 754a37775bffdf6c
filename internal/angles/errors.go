package angles

import "errors"

// ErrValidation marks bad input: unknown axis names, out-of-range sector
// indices, invalid transform subsets or physical tuples of the wrong arity.
var ErrValidation = errors.New("validation error")

// ErrUnsatisfiable marks a constraint that no candidate could meet: an auto
// search that found nothing inside limits, or an arm/base conversion with no
// consistent root combination.
var ErrUnsatisfiable = errors.New("unsatisfiable constraint")
