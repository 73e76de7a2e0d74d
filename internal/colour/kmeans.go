package colour

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"sort"
)

// Extraction limits.
const (
	MinColourCount = 1
	MaxColourCount = 256
)

var (
	// ErrNoPixels is returned when an image has no opaque pixels to cluster.
	ErrNoPixels = errors.New("no opaque pixels found in image")

	// ErrInvalidColourCount is returned for counts outside MinColourCount..MaxColourCount.
	ErrInvalidColourCount = errors.New("invalid colour count")
)

// Cluster is one extracted colour and the number of sampled pixels it represents.
type Cluster struct {
	RGB        RGB
	Population int
}

// KMeansExtractor implements colour extraction using k-means clustering.
type KMeansExtractor struct {
	maxIterations  int
	convergence    float64
	maxSamples     int
	alphaThreshold uint8
	rng            *rand.Rand
}

// NewKMeansExtractor creates a new KMeansExtractor seeded for reproducible output.
func NewKMeansExtractor(seed int64) *KMeansExtractor {
	return &KMeansExtractor{
		maxIterations:  20,
		convergence:    2.0,
		maxSamples:     4096,
		alphaThreshold: 16,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Extract clusters the pixels of img into at most count colours.
// Clusters are returned by descending population; empty clusters are dropped.
func (e *KMeansExtractor) Extract(img image.Image, count int) ([]Cluster, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < MinColourCount || count > MaxColourCount {
		return nil, fmt.Errorf("%w: %d (valid range %d-%d)", ErrInvalidColourCount, count, MinColourCount, MaxColourCount)
	}

	pixels := e.samplePixels(img)
	if len(pixels) == 0 {
		return nil, ErrNoPixels
	}

	// Count unique colours first.
	counts := make(map[RGB]int)
	order := make([]RGB, 0)
	for _, p := range pixels {
		if _, ok := counts[p]; !ok {
			order = append(order, p)
		}
		counts[p]++
	}

	// Fewer unique colours than requested: every colour is its own cluster.
	if count >= len(order) {
		clusters := make([]Cluster, len(order))
		for i, rgb := range order {
			clusters[i] = Cluster{RGB: rgb, Population: counts[rgb]}
		}
		sortClusters(clusters)
		return clusters, nil
	}

	centroids, populations := e.kmeans(pixels, count)

	clusters := make([]Cluster, 0, len(centroids))
	for i, c := range centroids {
		if populations[i] == 0 {
			continue
		}
		clusters = append(clusters, Cluster{
			RGB: RGB{
				R: clampComponent(c.R),
				G: clampComponent(c.G),
				B: clampComponent(c.B),
			},
			Population: populations[i],
		})
	}
	sortClusters(clusters)

	return clusters, nil
}

func sortClusters(clusters []Cluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Population > clusters[j].Population
	})
}

func clampComponent(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// samplePixels samples opaque pixels from the image.
// Large images are grid sampled down to roughly maxSamples pixels.
func (e *KMeansExtractor) samplePixels(img image.Image) []RGB {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()
	if totalPixels <= 0 {
		return nil
	}

	step := 1
	if totalPixels > e.maxSamples {
		step = max(int(math.Sqrt(float64(totalPixels)/float64(e.maxSamples))), 1)
	}

	pixels := make([]RGB, 0, min(totalPixels, e.maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < e.alphaThreshold {
				continue
			}
			pixels = append(pixels, RGB{R: c.R, G: c.G, B: c.B})
		}
	}

	return pixels
}

// kmeans performs k-means clustering on the pixel data.
// Returns centroids and the number of pixels assigned to each.
func (e *KMeansExtractor) kmeans(pixels []RGB, k int) ([]point3D, []int) {
	points := make([]point3D, len(pixels))
	for i, rgb := range pixels {
		points[i] = point3D{
			R: float64(rgb.R),
			G: float64(rgb.G),
			B: float64(rgb.B),
		}
	}

	centroids := e.initializeCentroidsKMeansPlusPlus(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% of assignments changed.
		if iter > 0 && float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := e.recalculateCentroids(points, assignments, k)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < e.convergence {
			break
		}
	}

	// Reassign against the final centroids so populations match them.
	populations := make([]int, k)
	for _, point := range points {
		populations[findNearestCentroid(point, centroids)]++
	}

	return centroids, populations
}

// initializeCentroidsKMeansPlusPlus initializes centroids using k-means++.
func (e *KMeansExtractor) initializeCentroidsKMeansPlusPlus(points []point3D, k int) []point3D {
	if len(points) == 0 || k == 0 {
		return []point3D{}
	}

	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[e.rng.Intn(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		totalDistance := 0.0

		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				if dist := point.distance(centroid); dist < minDist {
					minDist = dist
				}
			}
			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := e.rng.Float64() * totalDistance
		cumulative := 0.0
		picked := len(points) - 1
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				picked = i
				break
			}
		}
		centroids = append(centroids, points[picked])
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// recalculateCentroids recalculates centroid positions based on assigned points.
func (e *KMeansExtractor) recalculateCentroids(points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point3D{
				R: sums[i].R / float64(counts[i]),
				G: sums[i].G / float64(counts[i]),
				B: sums[i].B / float64(counts[i]),
			}
		} else {
			// Empty cluster - reinitialize randomly
			centroids[i] = points[e.rng.Intn(len(points))]
		}
	}

	return centroids
}
