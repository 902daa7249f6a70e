package variant

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultMaxCombinations is used when a caller passes a non-positive limit.
const DefaultMaxCombinations = 50

var (
	ErrEmptySelection      = errors.New("no attributes selected")
	ErrEmptyValueSet       = errors.New("attribute selected without values")
	ErrTooManyCombinations = errors.New("too many combinations")
)

// Assignment pins one attribute to one of its values.
type Assignment struct {
	AttributeID uint `json:"attribute_id"`
	ValueID     uint `json:"attribute_value_id"`
}

// Combination is one candidate sellable unit, sorted by attribute id.
type Combination []Assignment

// ValueIDs returns the value ids of the combination in attribute order.
func (c Combination) ValueIDs() []uint {
	ids := make([]uint, len(c))
	for i, a := range c {
		ids[i] = a.ValueID
	}
	return ids
}

// Generate builds the Cartesian product of the selected values.
// The result is rejected as a whole when it would exceed limit.
func Generate(selection map[uint][]uint, limit int) ([]Combination, error) {
	if len(selection) == 0 {
		return nil, ErrEmptySelection
	}
	if limit <= 0 {
		limit = DefaultMaxCombinations
	}

	attributeIDs := make([]uint, 0, len(selection))
	for id := range selection {
		attributeIDs = append(attributeIDs, id)
	}
	sort.Slice(attributeIDs, func(i, j int) bool { return attributeIDs[i] < attributeIDs[j] })

	valueSets := make(map[uint][]uint, len(selection))
	total := 1
	for _, attrID := range attributeIDs {
		values := dedupe(selection[attrID])
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: attribute %d", ErrEmptyValueSet, attrID)
		}
		valueSets[attrID] = values
		total *= len(values)
		if total > limit {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyCombinations, limit)
		}
	}

	result := []Combination{{}}
	for _, attrID := range attributeIDs {
		next := make([]Combination, 0, len(result)*len(valueSets[attrID]))
		for _, partial := range result {
			for _, valueID := range valueSets[attrID] {
				combo := make(Combination, len(partial), len(partial)+1)
				copy(combo, partial)
				next = append(next, append(combo, Assignment{AttributeID: attrID, ValueID: valueID}))
			}
		}
		result = next
	}

	return result, nil
}

// Key is the order-independent identity of a set of value ids.
// An empty set has an empty key.
func Key(valueIDs []uint) string {
	if len(valueIDs) == 0 {
		return ""
	}
	sorted := make([]uint, len(valueIDs))
	copy(sorted, valueIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// DuplicateAttributes reports attribute ids that appear more than once.
func DuplicateAttributes(attributeIDs []uint) []uint {
	seen := make(map[uint]int, len(attributeIDs))
	var dups []uint
	for _, id := range attributeIDs {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
