package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dupescan/internal/dedup"
	"dupescan/internal/hash"
)

var compareVisual bool

var compareCmd = &cobra.Command{
	Use:   "compare <fileA> <fileB>",
	Short: "Compare two files across hashing strategies",
	Long: `Compare two files using size, partial hash, full hash and
perceptual hash. With --visual, additionally decode both images and
report the perception-hash Hamming distance (0 = identical-looking,
<= 10 usually means visually similar).

Example:
  dupescan compare a.jpg b.jpg
  dupescan compare a.jpg b.jpg --visual`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareVisual, "visual", false, "Also compare decoded image content")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	pathA, pathB := args[0], args[1]

	finder := dedup.NewFinder()
	cmp, err := finder.Compare(pathA, pathB)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	mark := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	fmt.Printf("Same size:        %s\n", mark(cmp.SameSize))
	fmt.Printf("Partial match:    %s\n", mark(cmp.PartialMatch))
	fmt.Printf("Exact match:      %s\n", mark(cmp.ExactMatch))
	fmt.Printf("Perceptual match: %s\n", mark(cmp.PerceptualMatch))

	if compareVisual {
		dist, err := hash.VisualDistance(pathA, pathB)
		if err != nil {
			return fmt.Errorf("visual comparison failed: %w", err)
		}
		fmt.Printf("Visual distance:  %d\n", dist)
	}

	return nil
}
