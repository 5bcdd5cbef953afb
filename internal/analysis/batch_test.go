package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"Keystone/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingItem(key string, ratio float64) CheckItem {
	return CheckItem{Key: key, Check: func() (model.DesignResult, error) {
		return model.DesignResult{
			MemberID: key,
			Ratio:    ratio,
			Status:   model.StatusForRatio(ratio),
		}, nil
	}}
}

func TestCheckBatchKeepsInputOrder(t *testing.T) {
	items := []CheckItem{
		passingItem("B1", 0.4),
		passingItem("B2", 0.95),
		passingItem("B3", 1.1),
		passingItem("B4", 0.2),
	}

	out := NewRunner(nil).CheckBatch(context.Background(), items, 2)

	require.Len(t, out.Results, 4)
	for i, want := range []string{"B1", "B2", "B3", "B4"} {
		assert.Equal(t, want, out.Results[i].MemberID)
	}
	assert.Equal(t, 2, out.Summary.Pass)
	assert.Equal(t, 1, out.Summary.Warning)
	assert.Equal(t, 1, out.Summary.Fail)
	assert.Equal(t, "B3", out.Summary.Governing)
}

func TestCheckBatchIsolatesFailingItems(t *testing.T) {
	items := []CheckItem{
		passingItem("B1", 0.5),
		{Key: "B2", Check: func() (model.DesignResult, error) {
			return model.DesignResult{}, errors.New("missing section")
		}},
		passingItem("B3", 0.7),
	}

	out := NewRunner(nil).CheckBatch(context.Background(), items, 0)

	require.Len(t, out.Results, 2)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "B2", out.Errors[0].Key)
	assert.Contains(t, out.Errors[0].Err, "missing section")
	assert.Equal(t, 2, out.Summary.Pass)
}

func TestCheckBatchHonorsWorkerBound(t *testing.T) {
	var active, peak int32
	items := make([]CheckItem, 16)
	for i := range items {
		key := fmt.Sprintf("B%d", i)
		items[i] = CheckItem{Key: key, Check: func() (model.DesignResult, error) {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			defer atomic.AddInt32(&active, -1)
			return model.DesignResult{MemberID: key, Status: model.CheckPass}, nil
		}}
	}

	out := NewRunner(nil).CheckBatch(context.Background(), items, 3)

	require.Len(t, out.Results, 16)
	assert.LessOrEqual(t, peak, int32(3))
}

func TestCheckBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewRunner(nil).CheckBatch(ctx, []CheckItem{
		passingItem("B1", 0.5),
		passingItem("B2", 0.5),
	}, 2)

	assert.Empty(t, out.Results)
	require.Len(t, out.Errors, 2)
	assert.Contains(t, out.Errors[0].Err, "context canceled")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.DesignResult{
		{MemberID: "B1", Ratio: 0.5, Status: model.CheckPass},
		{FootingID: "F1", Ratio: 1.2, Status: model.CheckFail},
		{MemberID: "B2", Ratio: 0.95, Status: model.CheckWarning},
	})

	assert.Equal(t, 1, s.Pass)
	assert.Equal(t, 1, s.Warning)
	assert.Equal(t, 1, s.Fail)
	assert.InDelta(t, 1.2, s.MaxRatio, 1e-12)
	assert.InDelta(t, (0.5+1.2+0.95)/3, s.AvgRatio, 1e-12)
	assert.Equal(t, "F1", s.Governing)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Pass)
	assert.Zero(t, s.MaxRatio)
	assert.Zero(t, s.AvgRatio)
	assert.Empty(t, s.Governing)
}
