package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Keystone/internal/fea"
	"Keystone/internal/model"
)

// Request selects the analysis type and its options for one engine
// invocation. CaseFactors scales each load case in the assembled vector; an
// empty map assembles every case at factor 1.
type Request struct {
	Type        model.AnalysisType
	CaseFactors map[model.LoadCaseID]float64
	// Combo is the named combination CaseFactors was expanded from, if
	// any; it is recorded on the run for the report layer.
	Combo *model.LoadCombination

	Static   fea.StaticOptions
	Modal    fea.ModalOptions
	Spectrum fea.SpectrumOptions
}

// Runner executes analysis runs against immutable snapshots. It holds no
// model state, so one Runner serves concurrent runs.
type Runner struct {
	log *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Run drives the pending -> running -> complete|failed lifecycle. A
// cancelled context is honored between the assemble, solve, and recover
// phases; failures carry a diagnostic message and no partial results.
func (r *Runner) Run(ctx context.Context, snap *model.Snapshot, req Request) *model.AnalysisRun {
	run := model.NewAnalysisRun(req.Type)
	run.StartedAt = time.Now()
	run.Combination = req.Combo
	log := r.log.With(zap.String("run_id", run.ID), zap.String("type", string(req.Type)))

	if req.Type == model.AnalysisTimeHistory {
		return r.fail(run, log, &model.InputError{Msg: "time-history analysis is not supported"})
	}

	if err := run.Transition(model.RunRunning); err != nil {
		return r.fail(run, log, err)
	}

	phase := time.Now()
	checkpoint := func(name string) error {
		log.Debug("phase complete", zap.String("phase", name), zap.Duration("elapsed", time.Since(phase)))
		phase = time.Now()
		return ctx.Err()
	}

	sys, err := fea.NewSystem(snap)
	if err != nil {
		return r.fail(run, log, err)
	}
	if err := checkpoint("assemble"); err != nil {
		return r.fail(run, log, err)
	}

	switch req.Type {
	case model.AnalysisStatic:
		factors := req.CaseFactors
		if len(factors) == 0 && req.Combo != nil {
			factors = req.Combo.CaseFactors()
		}
		if len(factors) == 0 {
			factors = make(map[model.LoadCaseID]float64, len(snap.Cases))
			for _, c := range snap.Cases {
				factors[c.ID] = 1.0
			}
		}
		lv := fea.AssembleLoads(snap, factors)
		run.Warnings = lv.Warnings
		res, err := sys.SolveStatic(lv, req.Static)
		if err != nil {
			return r.fail(run, log, err)
		}
		if err := checkpoint("solve"); err != nil {
			return r.fail(run, log, err)
		}
		run.NodeResults = res.NodeResults
		run.MemberResults = res.MemberResults
		run.ShellResults = res.ShellResults

	case model.AnalysisModal:
		sol, err := sys.Modal(req.Modal)
		if err != nil {
			return r.fail(run, log, err)
		}
		if err := checkpoint("solve"); err != nil {
			return r.fail(run, log, err)
		}
		run.ModalResults = sol.ModalResults()

	case model.AnalysisResponseSpectrum:
		sol, err := sys.Modal(req.Modal)
		if err != nil {
			return r.fail(run, log, err)
		}
		if err := checkpoint("modal"); err != nil {
			return r.fail(run, log, err)
		}
		res, err := sys.ResponseSpectrum(sol, req.Spectrum)
		if err != nil {
			return r.fail(run, log, err)
		}
		if err := checkpoint("combine"); err != nil {
			return r.fail(run, log, err)
		}
		run.ModalResults = res.ModalResults
		run.NodeResults = spectrumNodeResults(snap, res)

	default:
		return r.fail(run, log, &model.InputError{Msg: "unknown analysis type " + string(req.Type)})
	}

	if err := run.Transition(model.RunComplete); err != nil {
		return r.fail(run, log, err)
	}
	run.FinishedAt = time.Now()
	log.Info("run complete", zap.Duration("total", run.FinishedAt.Sub(run.StartedAt)), zap.Int("warnings", len(run.Warnings)))
	return run
}

func (r *Runner) fail(run *model.AnalysisRun, log *zap.Logger, err error) *model.AnalysisRun {
	if run.Status == model.RunPending {
		run.Transition(model.RunRunning)
	}
	run.Transition(model.RunFailed)
	run.Message = err.Error()
	run.FinishedAt = time.Now()
	run.NodeResults = nil
	run.MemberResults = nil
	run.ShellResults = nil
	run.ModalResults = nil
	log.Warn("run failed", zap.Error(err))
	return run
}

// spectrumNodeResults maps combined peak displacement magnitudes back onto
// nodes. Spectral peaks are unsigned, so reactions stay empty.
func spectrumNodeResults(snap *model.Snapshot, res *fea.SpectrumResult) []model.NodeResult {
	out := make([]model.NodeResult, len(snap.Nodes))
	for i, n := range snap.Nodes {
		nr := model.NodeResult{Node: n.ID}
		for d := 0; d < model.DofCount; d++ {
			nr.Displacement[d] = res.Displacements[i*model.DofCount+d]
		}
		out[i] = nr
	}
	return out
}
