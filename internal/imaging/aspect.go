// Package imaging selects the output aspect ratio and resolution for
// image transformation from measured input dimensions.
package imaging

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions rejects non-positive image dimensions. Callers
// must validate dimensions before ratio selection.
var ErrInvalidDimensions = errors.New("image dimensions must be positive")

// Sizes supported by the image model.
const (
	Size1K = "1K"
	Size2K = "2K"
	Size4K = "4K"
)

type ratio struct {
	name string
	w, h int
}

// supportedRatios is the fixed set the image model accepts. 21:9 is
// excluded as too wide for MLS listings.
var supportedRatios = []ratio{
	{"1:1", 1, 1},
	{"2:3", 2, 3},
	{"3:2", 3, 2},
	{"3:4", 3, 4},
	{"4:3", 4, 3},
	{"4:5", 4, 5},
	{"5:4", 5, 4},
	{"9:16", 9, 16},
	{"16:9", 16, 9},
}

// ratioPixels maps supported ratio and size to exact output pixels.
var ratioPixels = map[string]map[string][2]int{
	"1:1":  {Size1K: {1024, 1024}, Size2K: {2048, 2048}, Size4K: {4096, 4096}},
	"2:3":  {Size1K: {848, 1264}, Size2K: {1696, 2528}, Size4K: {3392, 5056}},
	"3:2":  {Size1K: {1264, 848}, Size2K: {2528, 1696}, Size4K: {5056, 3392}},
	"3:4":  {Size1K: {896, 1200}, Size2K: {1792, 2400}, Size4K: {3584, 4800}},
	"4:3":  {Size1K: {1200, 896}, Size2K: {2400, 1792}, Size4K: {4800, 3584}},
	"4:5":  {Size1K: {928, 1152}, Size2K: {1856, 2304}, Size4K: {3712, 4608}},
	"5:4":  {Size1K: {1152, 928}, Size2K: {2304, 1856}, Size4K: {4608, 3712}},
	"9:16": {Size1K: {768, 1376}, Size2K: {1536, 2752}, Size4K: {3072, 5504}},
	"16:9": {Size1K: {1376, 768}, Size2K: {2752, 1536}, Size4K: {5504, 3072}},
}

// ValidateDimensions checks that both dimensions are positive.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// SelectRatio returns the supported ratio nearest to width:height,
// measured in log-ratio space so that reciprocal ratios are equally
// distant from square. On a distance tie the ratio matching the
// input's orientation wins; a square input keeps the earlier entry of
// the fixed order. Dimensions must be positive.
func SelectRatio(width, height int) string {
	const eps = 1e-9
	inputLog := math.Log(float64(width) / float64(height))

	best := supportedRatios[0]
	bestDist := math.Abs(inputLog - math.Log(float64(best.w)/float64(best.h)))
	for _, cand := range supportedRatios[1:] {
		dist := math.Abs(inputLog - math.Log(float64(cand.w)/float64(cand.h)))
		switch {
		case dist < bestDist-eps:
			best, bestDist = cand, dist
		case math.Abs(dist-bestDist) <= eps && orientationMatches(width, height, cand) && !orientationMatches(width, height, best):
			best = cand
		}
	}
	return best.name
}

func orientationMatches(width, height int, r ratio) bool {
	switch {
	case width > height:
		return r.w > r.h
	case width < height:
		return r.w < r.h
	default:
		return r.w == r.h
	}
}

// SelectConfig picks the output ratio and size for an input image.
// The ratio follows SelectRatio; the size is the table entry whose
// long edge is nearest the input's, with 2K preferred on near-ties
// for the quality/cost balance. Dimensions must be positive.
func SelectConfig(width, height int) (string, string) {
	name := SelectRatio(width, height)
	longInput := float64(max(width, height))

	bestSize := Size2K
	bestScore := math.Inf(1)
	for _, size := range []string{Size1K, Size2K, Size4K} {
		px := ratioPixels[name][size]
		longCand := float64(max(px[0], px[1]))
		score := math.Abs(longCand-longInput) / math.Max(longInput, 1)
		if size == Size2K {
			score -= 0.001
		}
		if score < bestScore {
			bestScore = score
			bestSize = size
		}
	}
	return name, bestSize
}

// OutputPixels returns the exact pixel dimensions for a supported
// ratio and size, or ok=false for unknown inputs.
func OutputPixels(ratioName, size string) (width, height int, ok bool) {
	sizes, ok := ratioPixels[ratioName]
	if !ok {
		return 0, 0, false
	}
	px, ok := sizes[size]
	if !ok {
		return 0, 0, false
	}
	return px[0], px[1], true
}
