package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AnalysisType string

const (
	AnalysisStatic           AnalysisType = "static"
	AnalysisModal            AnalysisType = "modal"
	AnalysisResponseSpectrum AnalysisType = "response_spectrum"
	// Declared but not implemented; requesting it fails the run up front.
	AnalysisTimeHistory AnalysisType = "time_history"
)

type RunStatus string

const (
	RunPending  RunStatus = "pending"
	RunRunning  RunStatus = "running"
	RunComplete RunStatus = "complete"
	RunFailed   RunStatus = "failed"
)

// Warning is a non-fatal diagnostic collected during a run, e.g. a load that
// referenced a missing node and was skipped.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NodeResult struct {
	Node NodeID `json:"node"`
	// Displacement in global axes (m, rad); Reaction only nonzero at
	// restrained or sprung DOFs (kN, kN*m).
	Displacement [6]float64 `json:"displacement"`
	Reaction     [6]float64 `json:"reaction"`
}

type MemberResult struct {
	Member MemberID `json:"member"`
	// End forces in member local axes: axial, shear y, shear z, torsion,
	// moment y, moment z at each end (kN, kN*m).
	StartForces [6]float64 `json:"start_forces"`
	EndForces   [6]float64 `json:"end_forces"`
}

// ShellResult carries the constant membrane force resultants recovered for
// one shell facet, in element local axes.
type ShellResult struct {
	Shell ShellID `json:"shell"`
	// Force per unit width (kN/m).
	Nx  float64 `json:"nx"`
	Ny  float64 `json:"ny"`
	Nxy float64 `json:"nxy"`
	// Equivalent von Mises membrane stress (kPa).
	VonMisesKPa float64 `json:"von_mises_kpa"`
}

type ModalResult struct {
	Mode          int     `json:"mode"`
	FrequencyHz   float64 `json:"frequency_hz"`
	PeriodS       float64 `json:"period_s"`
	// Mass participation ratios per horizontal direction.
	ParticipationX float64 `json:"participation_x"`
	ParticipationY float64 `json:"participation_y"`
	BaseShearKN    float64 `json:"base_shear_kn,omitempty"`
}

// AnalysisRun records one engine invocation. Status transitions are
// monotonic: pending -> running -> complete|failed. Complete runs are
// immutable.
type AnalysisRun struct {
	ID       string       `json:"id"`
	Type     AnalysisType `json:"type"`
	Status   RunStatus    `json:"status"`
	Message  string       `json:"message,omitempty"`
	Warnings []Warning    `json:"warnings,omitempty"`
	// Combination records the factored case set a static run was driven
	// by, when one was requested by name.
	Combination *LoadCombination `json:"combination,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	NodeResults   []NodeResult   `json:"node_results,omitempty"`
	MemberResults []MemberResult `json:"member_results,omitempty"`
	ShellResults  []ShellResult  `json:"shell_results,omitempty"`
	ModalResults  []ModalResult  `json:"modal_results,omitempty"`
}

func NewAnalysisRun(t AnalysisType) *AnalysisRun {
	return &AnalysisRun{ID: uuid.NewString(), Type: t, Status: RunPending}
}

var statusRank = map[RunStatus]int{
	RunPending:  0,
	RunRunning:  1,
	RunComplete: 2,
	RunFailed:   2,
}

// Transition advances the status; moving backwards is a programming error
// and is rejected.
func (r *AnalysisRun) Transition(next RunStatus) error {
	if statusRank[next] <= statusRank[r.Status] && next != r.Status {
		return fmt.Errorf("analysis run %s: illegal status transition %s -> %s", r.ID, r.Status, next)
	}
	if r.Status == RunComplete || r.Status == RunFailed {
		return fmt.Errorf("analysis run %s: already finished (%s)", r.ID, r.Status)
	}
	r.Status = next
	return nil
}

type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckWarning CheckStatus = "warning"
	CheckFail    CheckStatus = "fail"
)

// StatusForRatio maps a demand/capacity ratio onto the pass/warning/fail
// bands shared by every checker.
func StatusForRatio(dc float64) CheckStatus {
	switch {
	case dc > 1.0:
		return CheckFail
	case dc > 0.9:
		return CheckWarning
	default:
		return CheckPass
	}
}

// CodedMessage is a code-provision note attached to a design result. Coded
// messages never drive the pass/fail status by themselves.
type CodedMessage struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// DesignResult is the outcome of one checker invocation for one member or
// footing. A later run supersedes (replaces) an earlier result for the same
// key.
type DesignResult struct {
	MemberID  string         `json:"member_id,omitempty"`
	FootingID string         `json:"footing_id,omitempty"`
	Ratio     float64        `json:"ratio"`
	Status    CheckStatus    `json:"status"`
	Governing string         `json:"governing_check"`
	Messages  []CodedMessage `json:"messages,omitempty"`
}
