package instrument

// SignatureSet is an insertion-ordered set of signatures. Entries are never
// removed.
type SignatureSet struct {
	order []string
	seen  map[string]struct{}
}

// NewSignatureSet returns an empty set.
func NewSignatureSet() *SignatureSet {
	return &SignatureSet{seen: make(map[string]struct{})}
}

// Add inserts sig and reports whether it was new.
func (s *SignatureSet) Add(sig string) bool {
	if _, ok := s.seen[sig]; ok {
		return false
	}
	s.seen[sig] = struct{}{}
	s.order = append(s.order, sig)
	return true
}

// Has reports whether sig is in the set.
func (s *SignatureSet) Has(sig string) bool {
	_, ok := s.seen[sig]
	return ok
}

// Len returns the number of signatures.
func (s *SignatureSet) Len() int {
	return len(s.order)
}

// Values returns the signatures in insertion order.
func (s *SignatureSet) Values() []string {
	return append([]string(nil), s.order...)
}
