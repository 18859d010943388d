package services

import "route-optimizer-service/internal/domain"

// NearestNeighborOrder produces a visit order over the matrix using greedy
// nearest-unvisited construction: starting at the depot (index 0), repeatedly
// append the unvisited stop with minimal travel duration from the last
// visited one.
//
// This is a heuristic, not an exact TSP solver. It is deterministic, runs in
// O(n^2), and ties break on the lowest stop index. No 2-opt improvement pass
// is performed. Unreachable legs are never preferred: they are only taken,
// lowest index first, when no reachable unvisited stop remains.
func NearestNeighborOrder(m *domain.DistanceMatrix) []int {
	n := m.Size()
	if n == 0 {
		return []int{}
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	order = append(order, 0)
	visited[0] = true

	for len(order) < n {
		best := -1
		bestDuration := 0

		for j := 0; j < n; j++ {
			if visited[j] || !m.Reachable(current, j) {
				continue
			}
			d := m.Leg(current, j).DurationSeconds
			// Strict less-than keeps the first minimal index on ties.
			if best == -1 || d < bestDuration {
				best = j
				bestDuration = d
			}
		}

		if best == -1 {
			// Everything left is unreachable from here; fall back to the
			// lowest unvisited index so the result stays a permutation.
			for j := 0; j < n; j++ {
				if !visited[j] {
					best = j
					break
				}
			}
		}

		order = append(order, best)
		visited[best] = true
		current = best
	}

	return order
}
