package formula

import "strconv"

// String renders n for debug output (consumed by kr/pretty dumps in
// --debug mode). Traversal is iterative, matching the rest of this
// package's stack-bounded style.
func (n *Node) String() string {
	const (
		stateEnter = iota
		stateAfterLeft
		stateAfterRight
	)
	type frame struct {
		node  *Node
		state int
	}
	var b []byte
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := len(stack) - 1
		f := stack[top]
		if f.node.Kind == Literal {
			b = append(b, strconv.FormatInt(f.node.Label, 10)...)
			stack = stack[:top]
			continue
		}
		switch f.state {
		case stateEnter:
			b = append(b, f.node.Kind.String()...)
			b = append(b, '(')
			stack[top].state = stateAfterLeft
			stack = append(stack, frame{node: f.node.Left})
		case stateAfterLeft:
			b = append(b, ',')
			stack[top].state = stateAfterRight
			stack = append(stack, frame{node: f.node.Right})
		case stateAfterRight:
			b = append(b, ')')
			stack = stack[:top]
		}
	}
	return string(b)
}
