package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turnstilehq/turnstile/core/handler"
)

// tree is the routing table: a trie over path segments. Each level matches
// a literal segment first, then a {name} parameter, then a trailing *
// wildcard, backtracking when a deeper branch dead-ends.
type tree[C handler.Context] struct {
	node treeNode[C]
}

type treeNode[C handler.Context] struct {
	literals map[string]*treeNode[C]
	param    *treeNode[C]
	wildcard *treeNode[C]

	// leaf data, set once a pattern terminates here
	handlers  map[string]handler.HandlerFunc[C] // keyed by HTTP method, methodAny for Handle
	pattern   string
	paramKeys []string
}

// methodAny is the handlers key used by Handle registrations.
const methodAny = "*"

// segments breaks a rooted path into its parts. "/" becomes one empty
// segment and a trailing slash keeps its empty segment, so registration
// and lookup agree on both.
func segments(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// insert adds pattern to the table, panicking on malformed patterns:
// routes are registered at startup, where a bad pattern must not boot.
func (t *tree[C]) insert(method, pattern string, h handler.HandlerFunc[C]) {
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
	}

	segs := segments(pattern)
	var keys []string

	cur := &t.node
	for i, seg := range segs {
		switch {
		case seg == "*":
			if i != len(segs)-1 {
				panic(fmt.Errorf("%w: %q", ErrWildcardPosition, pattern))
			}
			if cur.wildcard == nil {
				cur.wildcard = &treeNode[C]{}
			}
			cur = cur.wildcard
			keys = append(keys, "*")

		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			name := seg[1 : len(seg)-1]
			if name == "" || strings.ContainsAny(name, "{}") {
				panic(fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
			}
			for _, k := range keys {
				if k == name {
					panic(fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, pattern))
				}
			}
			if cur.param == nil {
				cur.param = &treeNode[C]{}
			}
			cur = cur.param
			keys = append(keys, name)

		default:
			if strings.ContainsAny(seg, "{}*") {
				panic(fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
			}
			if cur.literals == nil {
				cur.literals = make(map[string]*treeNode[C])
			}
			next := cur.literals[seg]
			if next == nil {
				next = &treeNode[C]{}
				cur.literals[seg] = next
			}
			cur = next
		}
	}

	if cur.handlers == nil {
		cur.handlers = make(map[string]handler.HandlerFunc[C])
	}
	cur.handlers[method] = h
	cur.pattern = pattern
	cur.paramKeys = keys
}

// lookup resolves path to the leaf it terminates at, capturing parameter
// values positionally. A nil leaf means nothing matched at all.
func (t *tree[C]) lookup(path string) (*treeNode[C], []string) {
	var values []string
	leaf := t.node.walk(segments(path), &values)
	return leaf, values
}

func (n *treeNode[C]) walk(segs []string, values *[]string) *treeNode[C] {
	if len(segs) == 0 {
		if n.handlers != nil {
			return n
		}
		return nil
	}

	seg, rest := segs[0], segs[1:]

	if next := n.literals[seg]; next != nil {
		if leaf := next.walk(rest, values); leaf != nil {
			return leaf
		}
	}

	// A parameter needs a value; an empty segment never provides one.
	if n.param != nil && seg != "" {
		*values = append(*values, seg)
		if leaf := n.param.walk(rest, values); leaf != nil {
			return leaf
		}
		*values = (*values)[:len(*values)-1]
	}

	if n.wildcard != nil && n.wildcard.handlers != nil {
		*values = append(*values, strings.Join(segs, "/"))
		return n.wildcard
	}

	return nil
}

// resolve picks the handler for method at a leaf, falling back to a Handle
// registration. The second result lists the methods the leaf does serve,
// for the Allow header on a 405.
func (n *treeNode[C]) resolve(method string) (handler.HandlerFunc[C], []string) {
	if h := n.handlers[method]; h != nil {
		return h, nil
	}
	if h := n.handlers[methodAny]; h != nil {
		return h, nil
	}

	allowed := make([]string, 0, len(n.handlers))
	for m := range n.handlers {
		if m != methodAny {
			allowed = append(allowed, m)
		}
	}
	sort.Strings(allowed)
	return nil, allowed
}

// routes flattens the table for Router.Routes.
func (t *tree[C]) routes() []Route {
	var out []Route
	t.node.collect(&out)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (n *treeNode[C]) collect(out *[]Route) {
	for method := range n.handlers {
		*out = append(*out, Route{Method: method, Pattern: n.pattern})
	}
	for _, next := range n.literals {
		next.collect(out)
	}
	if n.param != nil {
		n.param.collect(out)
	}
	if n.wildcard != nil {
		n.wildcard.collect(out)
	}
}
