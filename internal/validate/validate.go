// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package validate repairs a proposed robot plan against a robot
// profile. It never rejects a plan or a step: out-of-range numeric
// values are clamped to the nearest bound, unknown modes and missing
// attachments are flagged, and every repair appends a warning.
package validate

import (
	"fmt"

	"github.com/curioswitch/robochef/internal/robodb"
)

// Plan clamps the plan's program steps into the profile's declared
// limits, appending a warning for each repair. Steps are processed in
// program order and checks run in a fixed order per step, so warning
// order is deterministic for the same plan and profile. The plan is
// mutated in place and returned.
func Plan(plan *robodb.RobotPlan, profile *robodb.RobotProfile) *robodb.RobotPlan {
	modes := profile.ModeIndex()

	for i := range plan.Program {
		step := &plan.Program[i]

		spec, ok := modes[step.Mode]
		if !ok {
			// Nothing to check a step against without a mode spec. The
			// step stays in the program untouched.
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("Mode '%s' is not in robot profile.", step.Mode))
			continue
		}

		if spec.MaxDurationSec != nil && step.DurationSec > *spec.MaxDurationSec {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("%s: duration %ds > max %ds; clamped.", step.Mode, step.DurationSec, *spec.MaxDurationSec))
			step.DurationSec = *spec.MaxDurationSec
		}

		if step.Speed != nil && spec.SpeedRange != nil {
			lo, hi := spec.SpeedRange[0], spec.SpeedRange[1]
			if *step.Speed < lo || *step.Speed > hi {
				plan.Warnings = append(plan.Warnings,
					fmt.Sprintf("%s: speed %d out of range %d-%d; clamped.", step.Mode, *step.Speed, lo, hi))
				step.Speed = robodb.Ptr(clamp(*step.Speed, lo, hi))
			}
		}

		if step.TemperatureC != nil && spec.TempCRange != nil {
			lo, hi := spec.TempCRange[0], spec.TempCRange[1]
			if *step.TemperatureC < lo || *step.TemperatureC > hi {
				plan.Warnings = append(plan.Warnings,
					fmt.Sprintf("%s: temp %d°C out of range %d-%d; clamped.", step.Mode, *step.TemperatureC, lo, hi))
				step.TemperatureC = robodb.Ptr(clamp(*step.TemperatureC, lo, hi))
			}
		}

		// Attachments are categorical so there is nothing to clamp to.
		if step.Attachment != "" && !profile.HasAttachment(step.Attachment) {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("Attachment '%s' not in robot profile attachments list.", step.Attachment))
		}
	}

	return plan
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
