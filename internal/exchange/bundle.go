package exchange

import (
	"runtime"
	"sync"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/validation"
)

// Bundle validates s and renders it in every named format. Formats are
// rendered in parallel, bounded by opts.MaxParallel. Files are keyed by
// FileName. An unknown format or a failed render marks the result
// unsuccessful without stopping the other formats.
func Bundle(s diagram.Snapshot, names []string, opts Options) *result.ConvertResult {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = runtime.NumCPU()
	}
	if opts.MaxParallel > 32 {
		opts.MaxParallel = 32
	}
	out := &result.ConvertResult{Success: true, Files: make(map[string][]byte)}

	if opts.Validate {
		level, err := diagram.ParseLevel(opts.Level)
		if err != nil {
			level = diagram.LevelContext
		}
		out.Warnings = validation.Validate(&s, level, opts.ComplexityThreshold)
		if opts.Strict && result.HasErrors(out.Warnings) {
			out.Success = false
			out.Errors = append(out.Errors, "model has validation errors")
			return out
		}
	}

	// Resolve formats first; unknown and duplicate names never reach a worker.
	var selected []Format
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		f, err := Lookup(name)
		if err != nil {
			out.Success = false
			out.Errors = append(out.Errors, err.Error())
			continue
		}
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		selected = append(selected, f)
	}

	type rendered struct {
		data []byte
		err  error
	}
	var (
		wg   sync.WaitGroup
		done = make([]rendered, len(selected))
		sem  = make(chan struct{}, opts.MaxParallel)
	)
	for i, f := range selected {
		wg.Add(1)
		go func(i int, f Format) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			data, err := f.Render(s.Clone())
			done[i] = rendered{data: data, err: err}
		}(i, f)
	}
	wg.Wait()

	// Collected in request order so errors are deterministic.
	for i, f := range selected {
		if done[i].err != nil {
			out.Success = false
			out.Errors = append(out.Errors, f.Name+": "+done[i].err.Error())
			continue
		}
		out.Files[FileName(s.Metadata.Name, f)] = done[i].data
	}
	return out
}
