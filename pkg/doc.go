// Package pkg provides the core libraries for treekit phylogenetic tree
// tooling.
//
// # Overview
//
// Treekit manipulates rooted phylogenetic trees: it computes drawing
// coordinates for linear and unrooted radial layouts, and summarizes tree
// collections into majority-rule consensus trees. The pkg directory is
// organized into a few areas:
//
//  1. [tree] - The tree data model (nodes, traversal indices, queries)
//  2. [layout] / [consensus] - The compute engines
//  3. [treeio] / [style] - JSON tree interchange and TOML style files
//  4. [cache] / [pipeline] - Result caching and orchestration
//  5. [errors] / [observability] / [buildinfo] - Ambient support
//
// # Architecture
//
// The typical data flow through treekit:
//
//	Tree documents (JSON)
//	         ↓
//	tree.Tree model  →  consensus.Build (collections)
//	         ↓
//	layout.Compute   →  coordinate tables (JSON)
//
// The pipeline package orchestrates the flow with content-addressed caching;
// the CLI and the HTTP API are thin shells over it.
package pkg
