// constants.go holds the built-in constant vocabulary.
package bbcode

import "sync"

// DefaultConstants is the vocabulary recognized by DefaultTrie.
var DefaultConstants = []string{
	":)",
	":(",
	":-)",
	"{:1_01:}",
	"{:1_02:}",
	"{:1_03:}",
	"{:1_04:}",
	"{:1_05:}",
	"{:1_06:}",
}

var defaultTrie = sync.OnceValue(func() *Trie {
	t, err := BuildTrie(DefaultConstants)
	if err != nil {
		panic("bbcode: invalid default constants: " + err.Error())
	}
	return t
})

// DefaultTrie returns the shared trie built from DefaultConstants.
// It is built on first use and is read-only afterwards.
func DefaultTrie() *Trie {
	return defaultTrie()
}
