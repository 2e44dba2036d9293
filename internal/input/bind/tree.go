package bind

import "github.com/dshills/imview/internal/input/key"

// node is one step of the prefix tree, keyed by canonical event strings.
// A node with commands is a complete bind; by construction it has no
// children.
type node struct {
	children map[string]*node
	commands []string
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// walk follows seq from n and returns the final node, or nil.
func (n *node) walk(seq *key.Sequence) *node {
	cur := n
	for _, event := range seq.Events {
		child, ok := cur.children[event.String()]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

// conflict reports whether binding seq would make one bind a strict
// prefix of another.
func (n *node) conflict(seq *key.Sequence) bool {
	cur := n
	for i, event := range seq.Events {
		child, ok := cur.children[event.String()]
		if !ok {
			return false
		}
		cur = child
		last := i == len(seq.Events)-1
		if !last && len(cur.commands) > 0 {
			return true
		}
		if last && len(cur.children) > 0 {
			return true
		}
	}
	return false
}

// insert creates the path for seq and returns its final node.
func (n *node) insert(seq *key.Sequence) *node {
	cur := n
	for _, event := range seq.Events {
		k := event.String()
		child, ok := cur.children[k]
		if !ok {
			child = newNode()
			cur.children[k] = child
		}
		cur = child
	}
	return cur
}

// remove clears the bind at seq and prunes empty nodes from leaf to root.
func (n *node) remove(seq *key.Sequence) bool {
	path := make([]*node, 0, seq.Len()+1)
	path = append(path, n)

	cur := n
	for _, event := range seq.Events {
		child, ok := cur.children[event.String()]
		if !ok {
			return false
		}
		path = append(path, child)
		cur = child
	}

	removed := len(cur.commands) > 0
	cur.commands = nil

	for i := len(path) - 1; i > 0; i-- {
		child := path[i]
		if len(child.commands) > 0 || len(child.children) > 0 {
			break
		}
		delete(path[i-1].children, seq.Events[i-1].String())
	}
	return removed
}

// each visits every bind in no particular order.
func (n *node) each(prefix []string, fn func(keys []string, commands []string)) {
	if len(n.commands) > 0 {
		fn(prefix, n.commands)
	}
	for k, child := range n.children {
		child.each(append(prefix[:len(prefix):len(prefix)], k), fn)
	}
}
