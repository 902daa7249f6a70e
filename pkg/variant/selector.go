package variant

import (
	"errors"
	"sort"
)

// ErrAmbiguousSelection means more than one option carries the exact same
// attribute assignment. That can only happen when the store lost its
// combination uniqueness guarantee.
var ErrAmbiguousSelection = errors.New("selection matches more than one variant")

type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusNoMatch    Status = "no_match"
	StatusResolved   Status = "resolved"
)

// Option is the selector's view of one sellable unit.
type Option struct {
	ID         uint
	Active     bool
	Stock      int
	Attributes map[string]uint // attribute name -> value id
}

type Resolution struct {
	Status   Status
	OptionID uint
}

// Selector resolves a shopper's attribute choices against a fixed option list.
// It keeps no state besides the current selection.
type Selector struct {
	options   []Option
	attrNames []string
	selection map[string]uint
}

func NewSelector(options []Option) *Selector {
	active := make([]Option, 0, len(options))
	names := make(map[string]struct{})
	for _, opt := range options {
		if !opt.Active {
			continue
		}
		active = append(active, opt)
		for name := range opt.Attributes {
			names[name] = struct{}{}
		}
	}

	attrNames := make([]string, 0, len(names))
	for name := range names {
		attrNames = append(attrNames, name)
	}
	sort.Strings(attrNames)

	return &Selector{
		options:   active,
		attrNames: attrNames,
		selection: make(map[string]uint),
	}
}

// AttributeNames lists every attribute used by an active option.
func (s *Selector) AttributeNames() []string {
	out := make([]string, len(s.attrNames))
	copy(out, s.attrNames)
	return out
}

// Select sets (or replaces) the chosen value for an attribute.
func (s *Selector) Select(attribute string, valueID uint) {
	s.selection[attribute] = valueID
}

func (s *Selector) Clear(attribute string) {
	delete(s.selection, attribute)
}

func (s *Selector) Selection() map[string]uint {
	out := make(map[string]uint, len(s.selection))
	for k, v := range s.selection {
		out[k] = v
	}
	return out
}

// IsSelectable reports whether choosing value for attribute still leaves at
// least one active option reachable given the other choices.
func (s *Selector) IsSelectable(attribute string, valueID uint) bool {
	return len(s.matching(s.extended(attribute, valueID))) > 0
}

// AvailableStock is the best stock among options reachable with the
// hypothetical choice, or 0 if none is reachable.
func (s *Selector) AvailableStock(attribute string, valueID uint) int {
	best := 0
	for _, opt := range s.matching(s.extended(attribute, valueID)) {
		if opt.Stock > best {
			best = opt.Stock
		}
	}
	return best
}

// Resolve recomputes the match for the current selection.
func (s *Selector) Resolve() (Resolution, error) {
	if len(s.options) == 1 {
		if len(s.matching(s.selection)) == 1 {
			return Resolution{Status: StatusResolved, OptionID: s.options[0].ID}, nil
		}
		return Resolution{Status: StatusNoMatch}, nil
	}

	for _, name := range s.attrNames {
		if _, ok := s.selection[name]; !ok {
			return Resolution{Status: StatusIncomplete}, nil
		}
	}

	var found []Option
	for _, opt := range s.options {
		if exactMatch(opt.Attributes, s.selection) {
			found = append(found, opt)
		}
	}

	switch len(found) {
	case 0:
		return Resolution{Status: StatusNoMatch}, nil
	case 1:
		return Resolution{Status: StatusResolved, OptionID: found[0].ID}, nil
	default:
		return Resolution{Status: StatusNoMatch}, ErrAmbiguousSelection
	}
}

func (s *Selector) extended(attribute string, valueID uint) map[string]uint {
	sel := s.Selection()
	sel[attribute] = valueID
	return sel
}

func (s *Selector) matching(selection map[string]uint) []Option {
	var out []Option
	for _, opt := range s.options {
		if subsetMatch(opt.Attributes, selection) {
			out = append(out, opt)
		}
	}
	return out
}

func subsetMatch(attrs, selection map[string]uint) bool {
	for name, valueID := range selection {
		if attrs[name] != valueID {
			return false
		}
	}
	return true
}

func exactMatch(attrs, selection map[string]uint) bool {
	return len(attrs) == len(selection) && subsetMatch(attrs, selection)
}
