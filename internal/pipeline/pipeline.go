// Package pipeline runs an ordered list of lifecycle stages with a uniform
// failure policy: a Required stage that fails stops the run, a BestEffort
// stage that fails is downgraded to a warning and the run continues.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Mode controls how the runner treats a stage failure.
type Mode int

const (
	// Required stages abort the remaining pipeline on failure.
	Required Mode = iota
	// BestEffort stages log a warning on failure and let the run continue.
	BestEffort
)

func (m Mode) String() string {
	if m == BestEffort {
		return "best-effort"
	}
	return "required"
}

// Stage is one step of a lifecycle run.
type Stage struct {
	Name string
	Mode Mode
	Run  func(ctx context.Context) error
}

// StageResult records the outcome of a single stage.
type StageResult struct {
	Name     string
	Mode     Mode
	Err      error
	Duration time.Duration
	Skipped  bool
}

// Result is the outcome of a full pipeline run.
type Result struct {
	Stages []StageResult
	// Err is the required-stage failure that stopped the run, if any.
	Err error
}

// Warnings returns the best-effort failures that were swallowed.
func (r Result) Warnings() []StageResult {
	var out []StageResult
	for _, s := range r.Stages {
		if s.Err != nil && s.Mode == BestEffort {
			out = append(out, s)
		}
	}
	return out
}

// Run executes stages in order. On a Required failure the remaining stages
// are recorded as skipped and Result.Err is set; BestEffort failures never
// stop the run. Stages execute serially, one at a time.
func Run(ctx context.Context, logger *zerolog.Logger, stages []Stage) Result {
	var result Result
	stopped := false

	for _, stage := range stages {
		if stopped {
			result.Stages = append(result.Stages, StageResult{Name: stage.Name, Mode: stage.Mode, Skipped: true})
			continue
		}

		logger.Info().Str("stage", stage.Name).Str("mode", stage.Mode.String()).Msg("Running stage")
		start := time.Now()
		err := stage.Run(ctx)
		elapsed := time.Since(start)

		result.Stages = append(result.Stages, StageResult{
			Name:     stage.Name,
			Mode:     stage.Mode,
			Err:      err,
			Duration: elapsed,
		})

		switch {
		case err == nil:
			logger.Info().Str("stage", stage.Name).Dur("elapsed", elapsed).Msg("Stage complete")
		case stage.Mode == BestEffort:
			logger.Warn().Err(err).Str("stage", stage.Name).Msg("Stage failed (non-fatal), continuing")
		default:
			logger.Error().Err(err).Str("stage", stage.Name).Msg("Stage failed")
			result.Err = fmt.Errorf("stage %s: %w", stage.Name, err)
			stopped = true
		}
	}

	return result
}
