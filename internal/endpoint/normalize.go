package endpoint

import (
	"fmt"

	"github.com/usestring/apitypes/pkg/types"
)

// Rejection records a spec that failed validation.
type Rejection struct {
	Index int // position in the input list
	Spec  types.EndpointSpec
	Err   error
}

// Accepted is a validated spec with its position in the input list.
type Accepted struct {
	Index int
	Spec  types.EndpointSpec
}

// Normalize validates every spec. Accepted specs carry normalized names; a
// spec whose normalized name collides with an earlier accepted spec is
// rejected so output files never overwrite each other.
func Normalize(specs []types.EndpointSpec) ([]Accepted, []Rejection) {
	accepted := make([]Accepted, 0, len(specs))
	var rejected []Rejection
	seen := make(map[string]int, len(specs))

	for i, spec := range specs {
		normalized, err := Validate(spec)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Spec: spec, Err: err})
			continue
		}
		if first, dup := seen[normalized.Name]; dup {
			rejected = append(rejected, Rejection{
				Index: i,
				Spec:  spec,
				Err: &ValidationError{
					Field:   "name",
					Value:   spec.Name,
					Message: fmt.Sprintf("normalizes to %q which is already used by endpoint #%d", normalized.Name, first+1),
				},
			})
			continue
		}
		seen[normalized.Name] = i
		accepted = append(accepted, Accepted{Index: i, Spec: normalized})
	}

	return accepted, rejected
}
