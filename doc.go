package treecheck

// Package treecheck provides:
//
// - Immutable Path/Segment values addressing locations inside nested object trees
// - A recursive structural type checker (Enforce) over explicit type descriptors
// - Path-annotated validation errors with stable codes
// - Dynamic tree navigation (GetInTree/SetInTree) over a generic document abstraction
//
// Design policy:
// - Keep only public APIs in the root package; supporting constructs live in
//   subpackages (record/, visit/, dualkey/, render/, validate/, fileio/).
// - Everything is synchronous and allocation-light; Path values are
//   copy-on-append and never mutate.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	p := treecheck.NewPath().AddAttribute("user").AddIndexOrKey(0)
//	err := treecheck.Enforce(v, treecheck.List(treecheck.Of[int]()))
//	val, err := p.GetInTree(doc)
