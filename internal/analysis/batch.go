package analysis

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"Keystone/internal/model"
)

// CheckItem is one design check to run in a batch. Key identifies the member
// or footing in the summary; Check must be safe to call from any goroutine.
type CheckItem struct {
	Key   string
	Check func() (model.DesignResult, error)
}

type ItemError struct {
	Key string `json:"key"`
	Err string `json:"error"`
}

type BatchResult struct {
	Results []model.DesignResult `json:"results"`
	Errors  []ItemError          `json:"errors,omitempty"`
	Summary Summary              `json:"summary"`
}

// CheckBatch runs the items across a bounded worker pool. Checks are
// stateless and independent, so order of execution is free; results keep the
// input order. A failing item is reported in Errors and never aborts its
// siblings. A cancelled context stops dispatching new items.
func (r *Runner) CheckBatch(ctx context.Context, items []CheckItem, workers int) BatchResult {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]model.DesignResult, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := range items {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = items[i].Check()
		}(i)
	}
	wg.Wait()

	out := BatchResult{}
	for i, item := range items {
		if errs[i] != nil {
			out.Errors = append(out.Errors, ItemError{Key: item.Key, Err: errs[i].Error()})
			r.log.Warn("design check failed", zap.String("key", item.Key), zap.Error(errs[i]))
			continue
		}
		out.Results = append(out.Results, results[i])
	}
	out.Summary = Summarize(out.Results)
	return out
}

// Summary aggregates a batch of design results.
type Summary struct {
	Pass    int `json:"pass"`
	Warning int `json:"warning"`
	Fail    int `json:"fail"`

	MaxRatio float64 `json:"max_ratio"`
	AvgRatio float64 `json:"avg_ratio"`
	// Governing names the element with the highest demand/capacity ratio.
	Governing string `json:"governing,omitempty"`
}

func Summarize(results []model.DesignResult) Summary {
	var s Summary
	for _, res := range results {
		switch res.Status {
		case model.CheckFail:
			s.Fail++
		case model.CheckWarning:
			s.Warning++
		default:
			s.Pass++
		}
		s.AvgRatio += res.Ratio
		if res.Ratio >= s.MaxRatio {
			s.MaxRatio = res.Ratio
			s.Governing = res.MemberID
			if s.Governing == "" {
				s.Governing = res.FootingID
			}
		}
	}
	if len(results) > 0 {
		s.AvgRatio /= float64(len(results))
	}
	return s
}
