package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dupescan/internal/exif"
)

var (
	exifJSON    bool
	exifVerbose bool
)

var exifCmd = &cobra.Command{
	Use:   "exif <file>",
	Short: "Show EXIF metadata for a JPEG or TIFF image",
	Long: `Decode and display EXIF metadata embedded in a JPEG or TIFF file.

Example:
  dupescan exif photo.jpg
  dupescan exif photo.jpg --json
  dupescan exif scan.tiff -v          # Also list skipped tags`,
	Args: cobra.ExactArgs(1),
	RunE: runExif,
}

func init() {
	exifCmd.Flags().BoolVar(&exifJSON, "json", false, "Output in JSON format")
	exifCmd.Flags().BoolVarP(&exifVerbose, "verbose", "v", false, "Show skipped-tag diagnostics")
	rootCmd.AddCommand(exifCmd)
}

func runExif(cmd *cobra.Command, args []string) error {
	extractor := exif.NewExtractor()
	result, err := extractor.Extract(args[0])
	if err != nil {
		return fmt.Errorf("failed to extract metadata: %w", err)
	}

	if result.NotApplicable {
		fmt.Printf("Not applicable: %s\n", result.Reason)
		return nil
	}
	if result.Record == nil {
		fmt.Println("No EXIF metadata found.")
		return nil
	}

	if exifJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Record)
	}

	fmt.Print(result.Record.Summary())

	if exifVerbose && len(result.Skipped) > 0 {
		fmt.Println()
		fmt.Printf("Skipped %d malformed tag(s):\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Printf("  %s\n", s)
		}
	}

	return nil
}
