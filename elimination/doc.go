// SPDX-License-Identifier: MIT

// Package elimination computes symbolic elimination patterns for symmetric
// sparse matrices whose structure is a network adjacency.
//
// What:
//
//   - Build orders every non-retained bus exactly once using the minimum
//     current degree rule (Tinney scheme 2), ties broken by lowest index.
//   - For each eliminated bus a Step records the surviving neighbors, the
//     slots joining them to the bus and the slots joining the neighbors
//     pairwise, creating fill-in slots where no branch existed.
//   - The resulting Pattern depends on topology only. Any symmetric matrix
//     sharing the adjacency (B′ and B″ in the power flow) can replay it
//     numerically as long as the retained set is unchanged.
//
// Slots:
//
//	0 … BranchCount()-1           original branch slots of the input graph
//	BranchCount() … SlotCount()-1 fill-in slots in creation order
//
// Complexity:
//
//   - Time:  O(Σ d_e² + V log V) where d_e is the degree of bus e when it is
//     eliminated (pairwise neighbor scan plus lazy heap updates).
//   - Space: O(V + E + F) for F fill-in slots.
//
// Errors:
//
//   - ErrBusIndex:     a slot endpoint or retained bus is out of range.
//   - ErrBadSlot:      a slot loops on one bus or duplicates another slot.
//   - ErrNoRetained:   the retained set is empty for a non-empty graph.
//   - ErrDisconnected: some bus cannot reach any retained bus; this is a
//     precondition violation (an island without a reference bus).
package elimination
