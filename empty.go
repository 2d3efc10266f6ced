package macrocell

import "fmt"

var (
	emptyLeaf     *LeafNode
	emptyBranches [MaxLevel + 1]*BranchNode
)

func init() {
	emptyLeaf = newLeafNode([4]LeafBlock{})
	var below Macrocell = emptyLeaf
	for level := MinLevel + 1; level <= MaxLevel; level++ {
		emptyBranches[level] = newBranch([4]Macrocell{below, below, below, below})
		below = emptyBranches[level]
	}
}

// EmptyOf returns the canonical all-dead macrocell of the given level. The
// same instance is returned on every call.
func EmptyOf(level uint8) Macrocell {
	switch {
	case level == MinLevel:
		return emptyLeaf
	case level > MinLevel && level <= MaxLevel:
		return emptyBranches[level]
	default:
		panic(fmt.Sprintf("no macrocell of level %d", level))
	}
}
