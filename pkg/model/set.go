package model

import (
	"encoding/json"
	"sort"
)

// Uint32Set is a set of uint32 that marshals as a sorted JSON array instead
// of an object, matching the wire shape of RevocationIdInformation.usedIds.
type Uint32Set map[uint32]struct{}

func NewUint32Set() Uint32Set {
	return make(Uint32Set)
}

func (s Uint32Set) Has(v uint32) bool {
	_, ok := s[v]
	return ok
}

func (s Uint32Set) Add(v uint32) {
	s[v] = struct{}{}
}

func (s Uint32Set) MarshalJSON() ([]byte, error) {
	vals := make([]uint32, 0, len(s))
	for v := range s {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	if vals == nil {
		vals = []uint32{}
	}
	return json.Marshal(vals)
}

func (s *Uint32Set) UnmarshalJSON(data []byte) error {
	var vals []uint32
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	set := make(Uint32Set, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	*s = set
	return nil
}
