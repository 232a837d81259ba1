package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupescan/internal/fileutil"
	"dupescan/internal/storage"
)

var (
	cleanDryRun    bool
	cleanMoveTo    string
	cleanNoConfirm bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove duplicate files recorded by the last scan",
	Long: `Remove the duplicate files from the most recent scan, keeping the
designated original (oldest file) in each group.

Options:
  --dry-run   Preview what would be removed without touching anything
  --move-to   Move duplicates to a folder instead of deleting them
  --yes       Skip the confirmation prompt

Example:
  dupescan clean --dry-run
  dupescan clean --move-to=./dupes
  dupescan clean --yes`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Preview without removing")
	cleanCmd.Flags().StringVar(&cleanMoveTo, "move-to", "", "Move duplicates to this folder instead of deleting")
	cleanCmd.Flags().BoolVarP(&cleanNoConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	scan, err := store.LatestScan()
	if err != nil {
		return fmt.Errorf("failed to load scans: %w", err)
	}
	if scan == nil {
		fmt.Println("No scans recorded.")
		return nil
	}

	groups, err := store.GetGroups(scan.ID)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	// Collect duplicates that still exist on disk.
	var toRemove []string
	var totalSize int64
	for _, group := range groups {
		for _, rec := range group.Duplicates {
			if _, err := os.Stat(rec.Path); err == nil {
				toRemove = append(toRemove, rec.Path)
				totalSize += rec.Size
			}
		}
	}

	if len(toRemove) == 0 {
		fmt.Println("No files to remove (files may have been already deleted).")
		return nil
	}

	action := "delete"
	if cleanMoveTo != "" {
		action = fmt.Sprintf("move to %s", cleanMoveTo)
	}
	fmt.Printf("Will %s %d files (%s)\n\n", action, len(toRemove), humanize.Bytes(uint64(totalSize)))

	if cleanDryRun {
		fmt.Println("Files to be removed:")
		for _, path := range toRemove {
			fmt.Printf("  %s\n", path)
		}
		fmt.Println()
		fmt.Println("(Dry run - no files were modified)")
		return nil
	}

	if !cleanNoConfirm {
		fmt.Printf("Are you sure you want to %s %d files? [y/N]: ", action, len(toRemove))
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var processed, failed int
	for _, path := range toRemove {
		var err error
		if cleanMoveTo != "" {
			err = fileutil.MoveFile(path, cleanMoveTo)
		} else {
			err = os.Remove(path)
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to process %s: %v\n", path, err)
			failed++
		} else {
			processed++
			store.DeleteMember(path)
		}
	}

	fmt.Println()
	if cleanMoveTo != "" {
		fmt.Printf("Moved %d files to %s\n", processed, cleanMoveTo)
	} else {
		fmt.Printf("Deleted %d files\n", processed)
	}
	if failed > 0 {
		fmt.Printf("Failed: %d files\n", failed)
	}
	fmt.Printf("Space reclaimed: %s\n", humanize.Bytes(uint64(totalSize)))

	return nil
}
