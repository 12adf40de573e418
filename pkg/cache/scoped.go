package cache

// scopedKeyer prefixes every key of another Keyer.
type scopedKeyer struct {
	Keyer
	prefix string
}

// NewScopedKeyer namespaces inner's keys under prefix, for example "c31:".
// A nil inner means the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{Keyer: inner, prefix: prefix}
}

func (k scopedKeyer) SolutionKey(graphHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.Keyer.SolutionKey(graphHash, opts)
}
