package cache

import "strconv"

// keyVersion changes whenever the stored result layout does.
const keyVersion = "v1"

// SolutionKeyOpts are the search options that change a result.
type SolutionKeyOpts struct {
	Length int
	Order  string
}

// Keyer builds cache keys.
type Keyer interface {
	// SolutionKey returns the key for the result of searching the graph with
	// the given content hash.
	SolutionKey(graphHash string, opts SolutionKeyOpts) string
}

// DefaultKeyer produces readable keys such as
// "solutions:v1:<graph hash>:42:insertion".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolutionKey joins the graph hash with the options.
func (DefaultKeyer) SolutionKey(graphHash string, opts SolutionKeyOpts) string {
	return "solutions:" + keyVersion + ":" + graphHash + ":" + strconv.Itoa(opts.Length) + ":" + opts.Order
}
