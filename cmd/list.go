package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupescan/internal/dedup"
	"dupescan/internal/storage"
)

var (
	listLimit   int
	listOffset  int
	listHistory bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List duplicate groups from the last scan",
	Long: `Display the duplicate groups recorded by the most recent scan,
ordered by reclaimable space.

Each group shows the designated original (oldest file, kept) and the
duplicates that could be removed.

Example:
  dupescan list              # Show first 10 groups (default)
  dupescan list -n 0         # Show all groups
  dupescan list --offset 10  # Groups 11-20
  dupescan list --history    # Show stored scans instead of groups`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 10, "Limit number of groups to display (0 = all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Skip first N groups (for pagination)")
	listCmd.Flags().BoolVar(&listHistory, "history", false, "List stored scans instead of groups")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if listHistory {
		return printHistory(store)
	}

	scan, err := store.LatestScan()
	if err != nil {
		return fmt.Errorf("failed to load scans: %w", err)
	}
	if scan == nil {
		fmt.Println("No scans recorded.")
		fmt.Println("Run 'dupescan scan <folder>' to scan for duplicates.")
		return nil
	}

	groups, err := store.GetGroups(scan.ID)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	fmt.Printf("Scan #%d of %s (%s, %s strategy)\n", scan.ID, scan.Root,
		scan.ScannedAt.Format("2006-01-02 15:04:05"), scan.Method)
	fmt.Printf("Found %d duplicate groups (%d duplicates, %s reclaimable)\n\n",
		scan.GroupCount, scan.TotalDuplicates, humanize.Bytes(uint64(scan.WastedBytes)))

	if len(groups) == 0 {
		return nil
	}

	// Apply pagination
	totalGroups := len(groups)
	startIdx := listOffset
	if startIdx > len(groups) {
		startIdx = len(groups)
	}
	groups = groups[startIdx:]
	if listLimit > 0 && listLimit < len(groups) {
		groups = groups[:listLimit]
	}

	if len(groups) == 0 {
		fmt.Printf("No groups in range (offset %d exceeds total %d)\n", listOffset, totalGroups)
		return nil
	}

	for i, group := range groups {
		printGroup(startIdx+i+1, group)
	}

	endIdx := startIdx + len(groups)
	fmt.Printf("Showing groups %d-%d of %d\n", startIdx+1, endIdx, totalGroups)
	if endIdx < totalGroups {
		fmt.Printf("Next page: dupescan list -n %d --offset %d\n", listLimit, endIdx)
	}

	return nil
}

func printHistory(store *storage.Storage) error {
	scans, err := store.ListScans(0)
	if err != nil {
		return fmt.Errorf("failed to load scans: %w", err)
	}
	if len(scans) == 0 {
		fmt.Println("No scans recorded.")
		return nil
	}

	fmt.Printf("%-6s  %-19s  %-10s  %-8s  %-12s  %s\n",
		"Scan", "Date", "Strategy", "Groups", "Reclaimable", "Folder")
	fmt.Println(strings.Repeat("-", 80))
	for _, scan := range scans {
		fmt.Printf("#%-5d  %-19s  %-10s  %-8d  %-12s  %s\n",
			scan.ID, scan.ScannedAt.Format("2006-01-02 15:04:05"), scan.Method,
			scan.GroupCount, humanize.Bytes(uint64(scan.WastedBytes)), scan.Root)
	}
	return nil
}

func printGroup(n int, group *dedup.DuplicateGroup) {
	fmt.Printf("Group #%d (%d files, %s reclaimable)\n",
		n, len(group.Duplicates)+1, humanize.Bytes(uint64(group.WastedBytes)))
	fmt.Println(strings.Repeat("-", 60))

	printMember := func(marker, path string, size int64) {
		fmt.Printf("  %s %-46s  %8s\n", marker, shortenPath(path, 46), humanize.Bytes(uint64(size)))
	}
	printMember("✓", group.Original.Path, group.Original.Size)
	for _, rec := range group.Duplicates {
		printMember("✗", rec.Path, rec.Size)
	}
	fmt.Println()
}

func shortenPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	dir, file := filepath.Split(path)
	if len(file) >= maxLen-3 {
		return "..." + file[len(file)-(maxLen-3):]
	}

	remaining := maxLen - len(file) - 4 // 4 for ".../"
	if remaining > 0 && len(dir) > remaining {
		dir = dir[len(dir)-remaining:]
	}
	return "..." + dir + file
}
