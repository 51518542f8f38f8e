package searcher

import (
	"math"

	"nrow/game"
)

const noParent = -1

// node is an arena entry. children[i] is the result of playing moves[i], so
// children are kept in insertion order, which is also board-scan order.
type node struct {
	state    *game.State
	parent   int
	moves    []game.Move
	children []int
	terminal bool
	rewards  float64
	visits   int
}

// tree owns every node of one search. Parents are referenced by index and
// only walked during backup.
type tree struct {
	nodes []node
}

func newTree(state *game.State) *tree {
	t := &tree{nodes: make([]node, 0, 64)}
	t.add(noParent, state)
	return t
}

func (t *tree) add(parent int, state *game.State) int {
	terminal := state.IsTerminal()
	var moves []game.Move
	if !terminal {
		moves = state.AvailableMoves()
	}
	t.nodes = append(t.nodes, node{
		state:    state,
		parent:   parent,
		moves:    moves,
		children: make([]int, 0, len(moves)),
		terminal: terminal,
	})
	return len(t.nodes) - 1
}

func (t *tree) size() int {
	return len(t.nodes)
}

// selectLeaf descends from the root while the node is non-terminal and has
// children. With fullExpansion it also stops at nodes with untried moves.
func (t *tree) selectLeaf(exploration float64, fullExpansion bool) int {
	id := 0
	for {
		n := &t.nodes[id]
		if n.terminal || len(n.children) == 0 {
			return id
		}
		if fullExpansion && len(n.children) < len(n.moves) {
			return id
		}
		id = t.pickChild(id, exploration)
	}
}

// pickChild returns the child with max UCT score, the first one on ties.
func (t *tree) pickChild(id int, exploration float64) int {
	n := &t.nodes[id]
	c2LnN := normalizer(exploration, n.visits)

	best := -1
	maxScore := math.Inf(-1)
	for _, childID := range n.children {
		child := &t.nodes[childID]
		score := ucb1(child.rewards, child.visits, c2LnN)
		if best == -1 || score > maxScore {
			maxScore = score
			best = childID
		}
	}
	return best
}

// expand adds one child for the first untried move, or returns id unchanged
// for terminal and fully expanded nodes.
func (t *tree) expand(id int) int {
	n := &t.nodes[id]
	if n.terminal || len(n.children) == len(n.moves) {
		return id
	}
	move := n.moves[len(n.children)]
	state, err := n.state.Apply(move)
	if err != nil {
		panic("expanding an illegal move: " + err.Error())
	}
	childID := t.add(id, state) // may reallocate t.nodes
	t.nodes[id].children = append(t.nodes[id].children, childID)
	return childID
}

// backup adds one visit and the same reward to every node up to the root.
func (t *tree) backup(id int, reward float64) {
	for id != noParent {
		n := &t.nodes[id]
		n.visits++
		n.rewards += reward
		id = n.parent
	}
}

func (t *tree) edges() []Edge {
	root := &t.nodes[0]
	edges := make([]Edge, len(root.children))
	for i, childID := range root.children {
		child := &t.nodes[childID]
		edges[i] = Edge{Move: root.moves[i], Visits: child.visits, Rewards: child.rewards}
	}
	return edges
}
