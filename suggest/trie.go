package suggest

// trie maps phrases to weights and enumerates every phrase under a prefix.
// Built once, then read-only.
type trie struct {
	root *trieNode
	size int
}

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
	weight   float64
}

func newTrie() *trie {
	return &trie{root: &trieNode{}}
}

// insert adds phrase, keeping the larger weight if it is already present.
func (t *trie) insert(phrase string, weight float64) {
	n := t.root
	for _, r := range phrase {
		if n.children == nil {
			n.children = make(map[rune]*trieNode)
		}
		child, ok := n.children[r]
		if !ok {
			child = &trieNode{}
			n.children[r] = child
		}
		n = child
	}
	if !n.terminal {
		t.size++
		n.terminal = true
		n.weight = weight
		return
	}
	if weight > n.weight {
		n.weight = weight
	}
}

// collect returns every phrase starting with prefix.
func (t *trie) collect(prefix string) []Suggestion {
	n := t.root
	for _, r := range prefix {
		n = n.children[r]
		if n == nil {
			return nil
		}
	}
	var out []Suggestion
	walk(n, []rune(prefix), &out)
	return out
}

func walk(n *trieNode, path []rune, out *[]Suggestion) {
	if n.terminal {
		*out = append(*out, Suggestion{Text: string(path), Weight: n.weight})
	}
	for r, child := range n.children {
		walk(child, append(path, r), out)
	}
}
