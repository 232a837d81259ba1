package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupescan/internal/dedup"
	"dupescan/internal/hash"
	"dupescan/internal/storage"
)

var (
	scanHashMethod string
	scanMinSize    int64
	scanNoStore    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "Scan a folder for duplicate files",
	Long: `Scan a folder recursively and detect duplicate files.

The scan will:
1. Collect all regular files under the folder
2. Bucket files by exact byte size (unique sizes are never duplicates)
3. Hash the remaining candidates with the selected strategy
4. Group files sharing a hash and rank groups by reclaimable space

Example:
  dupescan scan ./photos
  dupescan scan ./downloads --hash full --min-size 4096`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanHashMethod, "hash", string(hash.Partial), "Hash strategy: full, partial or perceptual")
	scanCmd.Flags().Int64Var(&scanMinSize, "min-size", 1, "Skip files smaller than this many bytes")
	scanCmd.Flags().BoolVar(&scanNoStore, "no-store", false, "Do not persist the report to the database")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	folder := args[0]

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absFolder)
	if err != nil {
		return fmt.Errorf("folder not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absFolder)
	}

	method, err := hash.ParseMethod(scanHashMethod)
	if err != nil {
		return err
	}

	fmt.Printf("Scanning: %s\n", absFolder)
	fmt.Printf("Strategy: %s\n", method)
	fmt.Printf("Workers:  %d\n\n", workers)

	files, err := collectFiles(absFolder)
	if err != nil {
		return fmt.Errorf("failed to walk folder: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No files found.")
		return nil
	}

	lastLine := ""
	finder := dedup.NewFinder(
		dedup.WithMethod(method),
		dedup.WithWorkers(workers),
		dedup.WithMinSize(scanMinSize),
		dedup.WithProgress(func(done, total int, current string) {
			if lastLine != "" {
				fmt.Print("\r" + strings.Repeat(" ", len(lastLine)) + "\r")
			}
			shortPath := current
			if len(shortPath) > 50 {
				shortPath = "..." + shortPath[len(shortPath)-47:]
			}
			lastLine = fmt.Sprintf("Hashing: %d/%d  %s", done, total, shortPath)
			fmt.Print(lastLine)
		}),
	)

	report := finder.FindDuplicates(cmd.Context(), files)

	if lastLine != "" {
		fmt.Print("\r" + strings.Repeat(" ", len(lastLine)) + "\r")
	}

	if !scanNoStore {
		store, err := storage.NewStorage(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		if _, err := store.SaveReport(absFolder, report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
	}

	fmt.Println("=== Scan Complete ===")
	fmt.Printf("Files scanned:    %d\n", report.FilesScanned)
	fmt.Printf("Candidates:       %d\n", report.Candidates)
	fmt.Printf("Duplicate groups: %d\n", report.GroupCount)
	fmt.Printf("Duplicates found: %d\n", report.TotalDuplicates)
	fmt.Printf("Wasted space:     %s\n", humanize.Bytes(uint64(report.WastedBytes)))

	if report.GroupCount > 0 {
		fmt.Println()
		fmt.Println("Run 'dupescan list' to see duplicate groups")
		fmt.Println("Run 'dupescan clean --dry-run' to preview deletions")
	}

	return nil
}

// collectFiles gathers all regular files under folder, skipping
// unreadable entries.
func collectFiles(folder string) ([]string, error) {
	var files []string
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
