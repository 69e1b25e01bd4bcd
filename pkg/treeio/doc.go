// Package treeio reads and writes trees and coordinate tables as JSON.
//
// # Overview
//
// treekit never parses phylogenetic text formats (Newick, Nexus); trees
// enter and leave the system as JSON documents. A tree document is a flat
// node table addressed by idxorder index, with explicit child-id lists so
// that sibling order - the left-to-right plotting order - round-trips
// exactly:
//
//	{
//	  "root": 4,
//	  "nodes": [
//	    {"id": 0, "name": "A", "dist": 1},
//	    {"id": 1, "name": "B", "dist": 1},
//	    {"id": 2, "name": "C", "dist": 2},
//	    {"id": 3, "dist": 1, "children": [0, 1]},
//	    {"id": 4, "dist": 0, "children": [3, 2]}
//	  ]
//	}
//
// Multi-tree collections wrap tree documents in {"trees": [...]}. Readers
// accept either form.
//
// Coordinate tables produced by the layout engine serialize with one row per
// node, addressed by the same idxorder, for consumption by external
// rendering layers.
package treeio
