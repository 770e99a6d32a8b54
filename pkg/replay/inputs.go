package replay

import (
	"encoding/json"
	"os"

	apperrors "github.com/flipgraph/flipgraph/pkg/errors"
	"github.com/flipgraph/flipgraph/pkg/partition"
)

// Step is one proposed update: a mapping from node IDs to their new parts.
// Steps are applied in file order, each producing one child partition.
type Step map[string]string

// ReadStepsFile reads a JSON array of steps from disk.
//
// The file format is a plain array of node→part objects:
//
//	[
//	  {"2": "B"},
//	  {"5": "A", "6": "A"}
//	]
func ReadStepsFile(path string) ([]Step, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDelta, err, "parse steps %s", path)
	}
	for i, s := range steps {
		if len(s) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidDelta, "parse steps %s: step %d is empty", path, i)
		}
		for id, part := range s {
			if err := apperrors.ValidateNodeID(id); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDelta, err, "parse steps %s: step %d", path, i)
			}
			if err := apperrors.ValidatePartLabel(part); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDelta, err, "parse steps %s: step %d", path, i)
			}
		}
	}
	return steps, nil
}

// ReadMappingFile reads a JSON node→part mapping from disk, used as an
// initial assignment when the graph carries no assignment attribute.
func ReadMappingFile(path string) (map[string]string, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidAssignment, err, "parse assignment %s", path)
	}
	if len(mapping) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidAssignment, "parse assignment %s: empty mapping", path)
	}
	return mapping, nil
}

// readInput reads an input file after checking the path, distinguishing
// missing files from other read failures.
func readInput(path string) ([]byte, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// encodeValue serializes a statistic value to canonical JSON. The built-in
// updaters produce maps, edge sets, and per-part edge sets; edge sets are
// encoded as sorted [u, v] pairs because their Go form is not a valid JSON
// object key.
func encodeValue(v any) ([]byte, error) {
	switch x := v.(type) {
	case partition.EdgeSet:
		return json.Marshal(edgePairs(x))
	case map[string]partition.EdgeSet:
		out := make(map[string][][2]string, len(x))
		for part, set := range x {
			out[part] = edgePairs(set)
		}
		return json.Marshal(out)
	default:
		return json.Marshal(v)
	}
}

func edgePairs(s partition.EdgeSet) [][2]string {
	pairs := make([][2]string, 0, s.Len())
	for _, e := range s.Sorted() {
		pairs = append(pairs, [2]string{e.U, e.V})
	}
	return pairs
}
