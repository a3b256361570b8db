package party

import "sort"

// IDSlice is a sorted slice of party IDs without duplicates.
type IDSlice []ID

// NewIDSlice returns a sorted, deduplicated copy of ids.
func NewIDSlice(ids []ID) IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	dedup := out[:0]
	for i, id := range out {
		if i == 0 || id != out[i-1] {
			dedup = append(dedup, id)
		}
	}
	return dedup
}

// RangeN returns the IDs 1, …, n.
func RangeN(n int) IDSlice {
	out := make(IDSlice, n)
	for i := range out {
		out[i] = ID(i + 1)
	}
	return out
}

// Contains reports whether all of the given ids are in the slice.
func (s IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if s.search(id) < 0 {
			return false
		}
	}
	return true
}

// Valid reports whether the slice is sorted, duplicate free, and contains no
// zero ID.
func (s IDSlice) Valid() bool {
	for i, id := range s {
		if !id.Valid() {
			return false
		}
		if i > 0 && s[i-1] >= id {
			return false
		}
	}
	return true
}

// Remove returns a copy of the slice with the given id removed.
func (s IDSlice) Remove(id ID) IDSlice {
	out := make(IDSlice, 0, len(s))
	for _, other := range s {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

func (s IDSlice) search(id ID) int {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= id })
	if i < len(s) && s[i] == id {
		return i
	}
	return -1
}
