package editor

// Registry maps each Kind to its widget constructor. Lookup is total:
// anything it does not know resolves to the text constructor.
type Registry struct {
	ctors map[Kind]Constructor
}

// NewRegistry builds a registry around the mandatory text constructor.
// Constructors for kinds outside the closed set are ignored.
func NewRegistry(text Constructor, others map[Kind]Constructor) *Registry {
	r := &Registry{ctors: map[Kind]Constructor{KindText: text}}
	for k, c := range others {
		if k.Valid() && k != KindText && c != nil {
			r.ctors[k] = c
		}
	}
	return r
}

// Lookup returns the constructor for k, or the text constructor.
func (r *Registry) Lookup(k Kind) Constructor {
	if c, ok := r.ctors[k]; ok {
		return c
	}
	return r.ctors[KindText]
}

// Has reports whether k has its own constructor.
func (r *Registry) Has(k Kind) bool {
	_, ok := r.ctors[k]
	return ok
}
