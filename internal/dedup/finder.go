// Package dedup groups files into duplicate sets using a size
// pre-filter followed by hash bucketing.
package dedup

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"dupescan/internal/hash"
)

// Finder detects duplicate files. Construct it once and pass it to
// collaborators explicitly; it holds no global state and concurrent
// scans over disjoint file sets are independent.
type Finder struct {
	method     hash.Method
	workers    int
	minSize    int64
	progressFn func(done, total int, path string)
	isImage    func(path string) bool
}

// Option configures a Finder.
type Option func(*Finder)

// WithMethod sets the hashing strategy (default Partial).
func WithMethod(m hash.Method) Option {
	return func(f *Finder) {
		if m != "" {
			f.method = m
		}
	}
}

// WithWorkers sets the number of parallel hash workers.
func WithWorkers(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithMinSize skips files smaller than n bytes.
func WithMinSize(n int64) Option {
	return func(f *Finder) {
		if n > 0 {
			f.minSize = n
		}
	}
}

// WithProgress sets a progress callback invoked after each hashed file.
func WithProgress(fn func(done, total int, path string)) Option {
	return func(f *Finder) {
		f.progressFn = fn
	}
}

// WithImageClassifier overrides the file-category check used to decide
// whether the perceptual strategy applies to a file. The default
// classifies by extension.
func WithImageClassifier(fn func(path string) bool) Option {
	return func(f *Finder) {
		if fn != nil {
			f.isImage = fn
		}
	}
}

// NewFinder creates a Finder.
func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		method:  hash.Partial,
		workers: 8,
		isImage: hash.IsImageFile,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindDuplicates runs the two-phase detection over the candidate
// files: bucket by exact byte size, then hash the files in multi-file
// buckets with a bounded worker pool and bucket again by hash string.
// Files that cannot be stat'd or hashed are dropped from their
// candidate set; the result is best-effort. Cancelling the context
// stops issuing further work and returns the partial grouping built
// from the hashes computed so far.
func (f *Finder) FindDuplicates(ctx context.Context, files []string) *Report {
	report := &Report{Method: f.method}

	// Phase 1: size pre-filter. Files of unique size cannot be
	// duplicates of anything.
	sizes := make(map[int64]int)
	stats := make([]*FileHashRecord, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		report.FilesScanned++
		if info.Size() < f.minSize {
			continue
		}
		stats = append(stats, &FileHashRecord{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		sizes[info.Size()]++
	}

	var candidates []*FileHashRecord
	for _, rec := range stats {
		if sizes[rec.Size] >= 2 {
			candidates = append(candidates, rec)
		}
	}
	report.Candidates = len(candidates)
	if len(candidates) < 2 {
		return report
	}

	// Phase 2: hash the surviving candidates in parallel. Results are
	// written back by index so grouping sees first-encountered order
	// regardless of completion order.
	var (
		wg   sync.WaitGroup
		done int64
	)
	work := make(chan int, len(candidates))
	for i := range candidates {
		select {
		case <-ctx.Done():
		default:
			work <- i
		}
	}
	close(work)

	total := len(candidates)
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					return
				}
				rec := candidates[i]
				sum, err := f.hashFile(rec.Path)
				if err == nil {
					rec.Hash = sum
					rec.Method = f.methodFor(rec.Path)
				}
				n := atomic.AddInt64(&done, 1)
				if f.progressFn != nil {
					f.progressFn(int(n), total, rec.Path)
				}
			}
		}()
	}
	wg.Wait()

	// Barrier reached: all hashes known. Bucket by hash string.
	buckets := make(map[string][]*FileHashRecord)
	var order []string
	for _, rec := range candidates {
		if rec.Hash == "" {
			continue
		}
		if _, seen := buckets[rec.Hash]; !seen {
			order = append(order, rec.Hash)
		}
		buckets[rec.Hash] = append(buckets[rec.Hash], rec)
	}

	for _, sum := range order {
		members := buckets[sum]
		if len(members) < 2 {
			continue
		}
		report.Groups = append(report.Groups, buildGroup(sum, members))
	}

	// Priority ordering: biggest reclaimable space first.
	sort.SliceStable(report.Groups, func(i, j int) bool {
		return report.Groups[i].WastedBytes > report.Groups[j].WastedBytes
	})

	report.GroupCount = len(report.Groups)
	for _, g := range report.Groups {
		report.TotalDuplicates += len(g.Duplicates)
		report.WastedBytes += g.WastedBytes
	}
	return report
}

// buildGroup designates the oldest member (ties: first-seen order) as
// the original and accounts the rest as waste.
func buildGroup(sum string, members []*FileHashRecord) *DuplicateGroup {
	sorted := make([]*FileHashRecord, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ModTime.Before(sorted[j].ModTime)
	})

	group := &DuplicateGroup{
		Hash:       sum,
		Original:   sorted[0],
		Duplicates: sorted[1:],
	}
	for _, rec := range group.Duplicates {
		group.WastedBytes += rec.Size
	}
	return group
}

// hashFile applies the configured strategy, dropping to Partial for
// non-image files when the strategy is Perceptual.
func (f *Finder) hashFile(path string) (string, error) {
	return hash.HashFile(path, f.methodFor(path))
}

func (f *Finder) methodFor(path string) hash.Method {
	if f.method == hash.Perceptual && !f.isImage(path) {
		return hash.Partial
	}
	return f.method
}

// Compare runs all byte-level strategies over a pair of files.
func (f *Finder) Compare(pathA, pathB string) (*Comparison, error) {
	statA, err := os.Stat(pathA)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", pathA, err)
	}
	statB, err := os.Stat(pathB)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", pathB, err)
	}

	cmp := &Comparison{SameSize: statA.Size() == statB.Size()}

	partialA, err := hash.PartialHash(pathA)
	if err != nil {
		return nil, err
	}
	partialB, err := hash.PartialHash(pathB)
	if err != nil {
		return nil, err
	}
	cmp.PartialMatch = partialA == partialB

	// A full hash can only match when sizes match.
	if cmp.SameSize {
		fullA, err := hash.FullHash(pathA)
		if err != nil {
			return nil, err
		}
		fullB, err := hash.FullHash(pathB)
		if err != nil {
			return nil, err
		}
		cmp.ExactMatch = fullA == fullB
	}

	perceptualA, err := hash.PerceptualHash(pathA)
	if err != nil {
		return nil, err
	}
	perceptualB, err := hash.PerceptualHash(pathB)
	if err != nil {
		return nil, err
	}
	cmp.PerceptualMatch = perceptualA == perceptualB

	return cmp, nil
}
