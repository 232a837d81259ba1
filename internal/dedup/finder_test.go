package dedup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupescan/internal/hash"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFindDuplicates_BasicGroup(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("same content"))
	b := writeFile(t, dir, "b.bin", []byte("same content"))
	c := writeFile(t, dir, "c.bin", []byte("other data!!"))

	// Same size as a and b so it survives the size pre-filter, but the
	// content differs.
	require.Equal(t, len("same content"), len("other data!!"))

	f := NewFinder(WithMethod(hash.Full))
	report := f.FindDuplicates(context.Background(), []string{a, b, c})

	assert.Equal(t, 3, report.FilesScanned)
	assert.Equal(t, 3, report.Candidates)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, 1, report.GroupCount)
	assert.Equal(t, 1, report.TotalDuplicates)
	assert.Equal(t, int64(len("same content")), report.WastedBytes)

	group := report.Groups[0]
	require.Len(t, group.Duplicates, 1)
	members := map[string]bool{
		group.Original.Path:      true,
		group.Duplicates[0].Path: true,
	}
	assert.True(t, members[a])
	assert.True(t, members[b])
	assert.False(t, members[c], "distinct content must not join the group")
}

func TestFindDuplicates_UniqueSizesNeverHashed(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("x"))
	b := writeFile(t, dir, "b.bin", []byte("xx"))
	c := writeFile(t, dir, "c.bin", []byte("xxx"))

	hashed := 0
	f := NewFinder(WithProgress(func(done, total int, path string) {
		hashed++
	}))
	report := f.FindDuplicates(context.Background(), []string{a, b, c})

	assert.Equal(t, 3, report.FilesScanned)
	assert.Equal(t, 0, report.Candidates)
	assert.Empty(t, report.Groups)
	assert.Equal(t, 0, hashed, "files of unique size must be skipped before hashing")
}

func TestFindDuplicates_OriginalIsOldest(t *testing.T) {
	dir := t.TempDir()
	newer := writeFile(t, dir, "newer.bin", []byte("payload"))
	older := writeFile(t, dir, "older.bin", []byte("payload"))

	now := time.Now()
	require.NoError(t, os.Chtimes(older, now, now.Add(-48*time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	f := NewFinder()
	// The newer file listed first: mtime, not input order, decides.
	report := f.FindDuplicates(context.Background(), []string{newer, older})

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Equal(t, older, group.Original.Path)
	require.Len(t, group.Duplicates, 1)
	assert.Equal(t, newer, group.Duplicates[0].Path)
}

func TestFindDuplicates_WastedBytesExcludesOriginal(t *testing.T) {
	dir := t.TempDir()
	content := []byte("0123456789")
	var files []string
	for _, name := range []string{"a.bin", "b.bin", "c.bin"} {
		files = append(files, writeFile(t, dir, name, content))
	}

	report := NewFinder().FindDuplicates(context.Background(), files)

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Len(t, group.Duplicates, 2)
	assert.Equal(t, int64(2*len(content)), group.WastedBytes)
	assert.Equal(t, int64(2*len(content)), report.WastedBytes)
	assert.Equal(t, 2, report.TotalDuplicates)
}

func TestFindDuplicates_GroupsSortedByWaste(t *testing.T) {
	dir := t.TempDir()
	small := []byte("aa")
	large := []byte("this content is substantially longer")

	files := []string{
		writeFile(t, dir, "s1.bin", small),
		writeFile(t, dir, "s2.bin", small),
		writeFile(t, dir, "l1.bin", large),
		writeFile(t, dir, "l2.bin", large),
		writeFile(t, dir, "l3.bin", large),
	}

	report := NewFinder().FindDuplicates(context.Background(), files)

	require.Len(t, report.Groups, 2)
	assert.Greater(t, report.Groups[0].WastedBytes, report.Groups[1].WastedBytes)
	assert.Equal(t, int64(2*len(large)), report.Groups[0].WastedBytes)
}

func TestFindDuplicates_MinSize(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.bin", []byte("tiny")),
		writeFile(t, dir, "b.bin", []byte("tiny")),
	}

	report := NewFinder(WithMinSize(1024)).FindDuplicates(context.Background(), files)

	assert.Equal(t, 2, report.FilesScanned)
	assert.Equal(t, 0, report.Candidates)
	assert.Empty(t, report.Groups)
}

func TestFindDuplicates_SkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("payload"))
	b := writeFile(t, dir, "b.bin", []byte("payload"))

	files := []string{a, filepath.Join(dir, "gone.bin"), b}
	report := NewFinder().FindDuplicates(context.Background(), files)

	assert.Equal(t, 2, report.FilesScanned)
	require.Len(t, report.Groups, 1)
}

func TestFindDuplicates_ProgressCallback(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.bin", []byte("payload")),
		writeFile(t, dir, "b.bin", []byte("payload")),
	}

	var (
		mu    sync.Mutex
		calls int
		last  int
		total int
	)
	f := NewFinder(WithWorkers(2), WithProgress(func(done, tot int, path string) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if done > last {
			last = done
		}
		total = tot
	}))
	f.FindDuplicates(context.Background(), files)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, last)
	assert.Equal(t, 2, total)
}

func TestFindDuplicates_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.bin", []byte("payload")),
		writeFile(t, dir, "b.bin", []byte("payload")),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewFinder().FindDuplicates(ctx, files)

	// Cancelled before any hashing: candidates counted, nothing grouped.
	assert.Equal(t, 2, report.Candidates)
	assert.Empty(t, report.Groups)
}

func TestFindDuplicates_PerceptualFallsBackForNonImages(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.dat", []byte("binary payload")),
		writeFile(t, dir, "b.dat", []byte("binary payload")),
	}

	report := NewFinder(WithMethod(hash.Perceptual)).FindDuplicates(context.Background(), files)

	require.Len(t, report.Groups, 1)
	for _, rec := range report.Groups[0].Members() {
		assert.Equal(t, hash.Partial, rec.Method)
	}
}

func TestFindDuplicates_ImageClassifierOverride(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.dat", []byte("binary payload")),
		writeFile(t, dir, "b.dat", []byte("binary payload")),
	}

	f := NewFinder(
		WithMethod(hash.Perceptual),
		WithImageClassifier(func(string) bool { return true }),
	)
	report := f.FindDuplicates(context.Background(), files)

	require.Len(t, report.Groups, 1)
	for _, rec := range report.Groups[0].Members() {
		assert.Equal(t, hash.Perceptual, rec.Method)
	}
}

func TestDuplicateGroup_Members(t *testing.T) {
	orig := &FileHashRecord{Path: "orig"}
	dup := &FileHashRecord{Path: "dup"}
	g := &DuplicateGroup{Original: orig, Duplicates: []*FileHashRecord{dup}}

	members := g.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "orig", members[0].Path)
	assert.Equal(t, "dup", members[1].Path)
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("identical"))
	b := writeFile(t, dir, "b.bin", []byte("identical"))
	c := writeFile(t, dir, "c.bin", []byte("different!"))

	f := NewFinder()

	same, err := f.Compare(a, b)
	require.NoError(t, err)
	assert.True(t, same.SameSize)
	assert.True(t, same.PartialMatch)
	assert.True(t, same.ExactMatch)
	assert.True(t, same.PerceptualMatch)

	diff, err := f.Compare(a, c)
	require.NoError(t, err)
	assert.False(t, diff.SameSize)
	assert.False(t, diff.PartialMatch)
	assert.False(t, diff.ExactMatch)
	assert.False(t, diff.PerceptualMatch)
}

func TestCompare_MissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bin", []byte("data"))

	_, err := NewFinder().Compare(a, filepath.Join(dir, "gone.bin"))
	assert.Error(t, err)
}
