package detectors

import (
	"context"
	"math"
	"math/rand"
)

// isolationForest is an ensemble of random partitioning trees over the
// numeric feature space. Rows that isolate in fewer splits score closer to
// 1.0. The forest is seeded from the analysis config, so the same input and
// policy always produce the same scores.
type isolationForest struct {
	trees      int
	sampleSize int
	rng        *rand.Rand

	roots       []*isolationNode
	avgPathNorm float64
}

type isolationNode struct {
	feature int
	split   float64
	left    *isolationNode
	right   *isolationNode
	size    int
}

func newIsolationForest(trees, sampleSize int, seed int64) *isolationForest {
	return &isolationForest{
		trees:      trees,
		sampleSize: sampleSize,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Fit builds the ensemble from the feature matrix.
func (f *isolationForest) Fit(ctx context.Context, features [][]float64) error {
	sample := f.sampleSize
	if sample > len(features) {
		sample = len(features)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sample))))
	f.avgPathNorm = averagePathLength(sample)

	f.roots = make([]*isolationNode, 0, f.trees)
	for t := 0; t < f.trees; t++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		idx := f.rng.Perm(len(features))[:sample]
		subset := make([][]float64, sample)
		for i, j := range idx {
			subset[i] = features[j]
		}
		f.roots = append(f.roots, f.buildTree(subset, 0, heightLimit))
	}
	return nil
}

func (f *isolationForest) buildTree(rows [][]float64, depth, heightLimit int) *isolationNode {
	if len(rows) <= 1 || depth >= heightLimit {
		return &isolationNode{size: len(rows)}
	}

	nFeatures := len(rows[0])
	feature := f.rng.Intn(nFeatures)

	min, max := rows[0][feature], rows[0][feature]
	for _, r := range rows[1:] {
		if r[feature] < min {
			min = r[feature]
		}
		if r[feature] > max {
			max = r[feature]
		}
	}
	if min == max {
		return &isolationNode{size: len(rows)}
	}

	split := min + f.rng.Float64()*(max-min)
	var left, right [][]float64
	for _, r := range rows {
		if r[feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	return &isolationNode{
		feature: feature,
		split:   split,
		left:    f.buildTree(left, depth+1, heightLimit),
		right:   f.buildTree(right, depth+1, heightLimit),
		size:    len(rows),
	}
}

// Score returns the anomaly score s = 2^(-E[h]/c(psi)) in (0,1]. Shorter
// average isolation paths mean higher scores.
func (f *isolationForest) Score(row []float64) float64 {
	if len(f.roots) == 0 {
		return 0
	}
	total := 0.0
	for _, root := range f.roots {
		total += pathLength(root, row, 0)
	}
	mean := total / float64(len(f.roots))
	if f.avgPathNorm <= 0 {
		return 0
	}
	return math.Pow(2, -mean/f.avgPathNorm)
}

func pathLength(node *isolationNode, row []float64, depth float64) float64 {
	if node.left == nil && node.right == nil {
		return depth + averagePathLength(node.size)
	}
	if row[node.feature] < node.split {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// averagePathLength is c(n), the expected path length of an unsuccessful
// BST search, used to normalize isolation depths.
func averagePathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	h := math.Log(float64(n-1)) + 0.5772156649 // Euler-Mascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}
