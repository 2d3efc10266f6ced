/*
Package macrocell provides an immutable, canonical quadtree for unbounded
two-dimensional grids of alive/dead cells, and a lossless, deduplicating text
codec for it.

# Macrocells

A macrocell is a square region of 2^level × 2^level cells. The smallest,
a LeafNode, is level 4: four 8×8 LeafBlocks, each packed into one uint64.
Every larger macrocell is a BranchNode holding four macrocells one level
down, in nw, ne, sw, se order. Size and a structural hash are computed once,
when a node is built, and nodes are never modified afterwards.

Changing a cell (WithCell) copies only the path from the root to one leaf
block; the other three children at every level are shared with the source.
Entirely empty regions are represented by one canonical node per level
(EmptyOf), so empty space costs nothing.

# Boards

A Board places a macrocell root on the plane at a global offset. Setting a
cell outside the root's square grows the board: the root is wrapped one
level higher, centred in the new square, as many times as needed. Boards can
be built from any Grid, enumerated lazily through a window (CellsInWindow),
queried as a set (AliveCells), and compared (Diff).

Text format

	[M2] (jrhy/macrocell)
	#P -3 -1
	.*$..*$***$
	.*$
	4 1 2 0 0

After the header, each line is a comment (#), a leaf block (rows of '.' and
'*', each ended by '$'), or a node (level nw ne sw se). Leaf and node lines
share one index space counted from 1 in file order; 0 stands for an empty
child. Equal subtrees are written once and referenced by index thereafter.
The optional #P line gives the global position of the root's origin.

# Concurrency

Macrocells and Boards are values that never change, so they can be shared
between goroutines without locking. Enumeration sequences may be ranged over
any number of times, each range starting an independent walk.
*/
package macrocell
