package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	workers int
)

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "Find duplicate files and inspect image metadata",
	Long: `dupescan finds duplicate files using size pre-filtering and
selectable hashing strategies (full, partial, perceptual), and decodes
EXIF metadata from JPEG and TIFF images.

Example usage:
  dupescan scan ./photos                 # Find duplicates with the partial hash
  dupescan scan ./photos --hash full     # Byte-exact duplicate detection
  dupescan exif photo.jpg                # Show camera/exposure/GPS metadata
  dupescan compare a.jpg b.jpg           # Compare two files across strategies
  dupescan list                          # Show the last stored scan report
  dupescan clean --dry-run               # Preview removal of duplicates`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	homeDir, _ := os.UserHomeDir()
	defaultDB := filepath.Join(homeDir, ".dupescan", "reports.db")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Path to the report database")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 8, "Number of parallel hash workers")
}
