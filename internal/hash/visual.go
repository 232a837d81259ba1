package hash

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// VisualHash computes a 64-bit perception hash of the decoded image.
// Unlike the byte-sampling strategies it survives re-encoding and
// resizing, at the cost of fully decoding the image.
func VisualHash(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("failed to decode image: %w", err)
	}

	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, fmt.Errorf("failed to compute hash: %w", err)
	}
	return h.GetHash(), nil
}

// VisualDistance returns the Hamming distance between the perception
// hashes of two images. A distance of 0-10 usually indicates visually
// similar content.
func VisualDistance(pathA, pathB string) (int, error) {
	a, err := VisualHash(pathA)
	if err != nil {
		return 0, err
	}
	b, err := VisualHash(pathB)
	if err != nil {
		return 0, err
	}
	return HammingDistance(a, b), nil
}

// HammingDistance counts differing bits between two hashes.
func HammingDistance(a, b uint64) int {
	xor := a ^ b
	count := 0
	for xor != 0 {
		count++
		xor &= xor - 1
	}
	return count
}
