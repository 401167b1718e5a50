// Package layout positions a fractal subdivision tree as a dendrogram and
// maps pointer coordinates back to tree nodes.
//
// # Algorithm
//
// [Apply] seeds a pre-order traversal at (width/2, TopMargin). Each node
// with k children spreads them evenly under itself with spacing dx, one
// level step lower, and recurses with dx/2:
//
//	child[i].x = x - dx*(k-1)/2 + i*dx
//	child[i].y = y + dy
//
// The initial spacing is width / 2^(maxDepth+1) scaled by [Spacing.Spread];
// the level step is either [Spacing.LevelStep] or height/(maxDepth+1).
//
// # Hit Testing
//
// [HitTest] returns the first node in pre-order whose layout position lies
// within radius of the query point. Ties are broken by traversal order, not
// by distance.
package layout
