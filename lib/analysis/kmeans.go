package analysis

import (
	"math"
	"math/rand"
)

const kmeansMaxIterations = 100

// kmeansPartition assigns each vector to one of k clusters by iterative
// centroid refinement. The seed fully determines the outcome for a
// given input; the numeric labels themselves carry no meaning beyond
// grouping.
func kmeansPartition(vectors [][]float64, k int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))

	// initial centroids are k distinct input vectors
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(vectors))[:k] {
		centroids[i] = append([]float64(nil), vectors[idx]...)
	}

	assignments := make([]int, len(vectors))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, vec := range vectors {
			nearest := nearestCentroid(vec, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dim := len(vectors[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, vec := range vectors {
			cluster := assignments[i]
			counts[cluster]++
			for j, v := range vec {
				sums[cluster][j] += v
			}
		}
		for i := range centroids {
			// a centroid that lost all members keeps its position
			if counts[i] == 0 {
				continue
			}
			for j := range sums[i] {
				sums[i][j] /= float64(counts[i])
			}
			centroids[i] = sums[i]
		}
	}
	return assignments
}

func nearestCentroid(vec []float64, centroids [][]float64) int {
	nearest := 0
	best := math.Inf(1)
	for i, centroid := range centroids {
		var dist float64
		for j, v := range vec {
			d := v - centroid[j]
			dist += d * d
		}
		if dist < best {
			best = dist
			nearest = i
		}
	}
	return nearest
}
