// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"bytes"
	"sort"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
)

// Package is a connected component of the pool's parent/child graph:
// one entry together with every in-pool ancestor and descendant,
// grouped so block assembly and relay can honour the combined
// (child-pays-for-parent) fee rate of the whole bundle.
type Package struct {
	// TopFeeRate is the fee rate of the component's root entry (the
	// one with no in-pool ancestors), used to order packages against
	// each other.
	TopFeeRate uint64
	// Entries lists every member of the component, parents before
	// children (an in-pool ancestor always precedes its descendants).
	Entries []*Entry
}

// Packages groups every pooled transaction into its connected
// ancestor/descendant component and returns one Package per component,
// in descending order of TopFeeRate. Within a package, entries are
// topologically ordered so that parents precede children.
func (p *Pool) Packages() []*Package {
	p.mu.RLock()
	defer p.mu.RUnlock()

	visited := make(map[chainhash.Hash]struct{}, len(p.entries))
	var packages []*Package

	roots := make([]chainhash.Hash, 0)
	for txid := range p.entries {
		if len(p.parents[txid]) == 0 {
			roots = append(roots, txid)
		}
	}
	// Deterministic iteration order for reproducible package ordering
	// among equal fee rates.
	sort.Slice(roots, func(i, j int) bool {
		return bytes.Compare(roots[i][:], roots[j][:]) < 0
	})

	for _, root := range roots {
		if _, seen := visited[root]; seen {
			continue
		}
		members := p.componentFrom(root, visited)
		packages = append(packages, &Package{
			TopFeeRate: p.entries[root].FeeRate,
			Entries:    members,
		})
	}

	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].TopFeeRate > packages[j].TopFeeRate
	})
	return packages
}

// componentFrom collects root and every descendant reachable from it
// (root has no in-pool ancestors, so this is exactly its whole
// component), in parent-before-child order, marking each visited.
// The caller holds at least a read lock.
func (p *Pool) componentFrom(root chainhash.Hash, visited map[chainhash.Hash]struct{}) []*Entry {
	var order []*Entry
	queue := []chainhash.Hash{root}
	visited[root] = struct{}{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, p.entries[cur])

		children := make([]chainhash.Hash, 0, len(p.children[cur]))
		for child := range p.children[cur] {
			children = append(children, child)
		}
		sort.Slice(children, func(i, j int) bool {
			return bytes.Compare(children[i][:], children[j][:]) < 0
		})
		for _, child := range children {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return order
}
