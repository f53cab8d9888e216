// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package robodb

import (
	"google.golang.org/genai"
)

// ModeSpec declares the operating envelope of one robot mode.
type ModeSpec struct {
	// Mode is the mode name, matched exactly against program steps.
	Mode string `json:"mode" yaml:"mode"`

	// SpeedRange is the allowed [lo, hi] speed range, nil if the mode
	// has no speed setting.
	SpeedRange *[2]int `json:"speed_range,omitempty" yaml:"speed_range,omitempty"`

	// TempCRange is the allowed [lo, hi] temperature range in Celsius,
	// nil if the mode does not heat.
	TempCRange *[2]int `json:"temp_c_range,omitempty" yaml:"temp_c_range,omitempty"`

	// MaxDurationSec is the longest a single step may run in this mode,
	// nil if unbounded.
	MaxDurationSec *int `json:"max_duration_sec,omitempty" yaml:"max_duration_sec,omitempty"`

	// SupportsPulse reports whether the mode supports pulsed operation.
	SupportsPulse *bool `json:"supports_pulse,omitempty" yaml:"supports_pulse,omitempty"`

	// StirSpeeds are discrete stir speeds the mode supports.
	StirSpeeds []int `json:"stir_speeds,omitempty" yaml:"stir_speeds,omitempty"`
}

// RobotProfile is the capability descriptor for one robot model.
// Profiles are loaded read-only and never mutated.
type RobotProfile struct {
	// RobotModel is the device identifier.
	RobotModel string `json:"robot_model" yaml:"robot_model"`

	// BowlCapacityML is the total bowl capacity in milliliters.
	BowlCapacityML int `json:"bowl_capacity_ml" yaml:"bowl_capacity_ml"`

	// BowlMaxFillML is the maximum safe fill in milliliters.
	BowlMaxFillML int `json:"bowl_max_fill_ml" yaml:"bowl_max_fill_ml"`

	// BowlMaxMassG is the maximum safe mass in grams.
	BowlMaxMassG int `json:"bowl_max_mass_g" yaml:"bowl_max_mass_g"`

	// Attachments are the attachments available for the robot.
	Attachments []string `json:"attachments" yaml:"attachments"`

	// Modes are the operating modes of the robot.
	Modes []ModeSpec `json:"modes" yaml:"modes"`

	// Idioms are device-specific hints passed opaquely to the planner.
	Idioms map[string]any `json:"idioms,omitempty" yaml:"idioms,omitempty"`
}

// ModeIndex returns the profile's modes keyed by mode name.
func (p *RobotProfile) ModeIndex() map[string]*ModeSpec {
	idx := make(map[string]*ModeSpec, len(p.Modes))
	for i := range p.Modes {
		idx[p.Modes[i].Mode] = &p.Modes[i]
	}
	return idx
}

// HasAttachment reports whether the profile lists the attachment.
func (p *RobotProfile) HasAttachment(name string) bool {
	for _, a := range p.Attachments {
		if a == name {
			return true
		}
	}
	return false
}

// ProgramStep is a single timed, parameterized robot operation.
type ProgramStep struct {
	// Mode is the robot mode to run.
	Mode string `json:"mode"`

	// DurationSec is how long to run the step.
	DurationSec int `json:"duration_sec"`

	// Speed is the speed setting, nil if the step has none.
	Speed *int `json:"speed,omitempty"`

	// TemperatureC is the temperature setting in Celsius, nil if the
	// step has none.
	TemperatureC *int `json:"temperature_c,omitempty"`

	// Attachment is the attachment to use, empty if none.
	Attachment string `json:"attachment,omitempty"`

	// Notes are free-form notes about the step.
	Notes string `json:"notes,omitempty"`
}

// RobotPlan is the planner's proposed device program for one adaptation
// round. The safety validator mutates it in place before assembly.
type RobotPlan struct {
	// Program is the ordered sequence of robot operations.
	Program []ProgramStep `json:"robot_program"`

	// ManualSteps are actions the user performs by hand.
	ManualSteps []string `json:"manual_steps"`

	// Warnings are non-fatal issues found while planning or validating.
	Warnings []string `json:"warnings"`

	// Questions are open clarification questions. Their shape is defined
	// by the planner and the client, never interpreted here.
	Questions []map[string]any `json:"questions"`

	// CannotMap lists recipe actions that could not be mapped onto the
	// robot at all.
	CannotMap []string `json:"cannot_map"`
}

// Resolved reports whether the plan carries no open questions.
func (p *RobotPlan) Resolved() bool {
	return len(p.Questions) == 0
}

// RobotPlanSchema constrains planner output to RobotPlan.
var RobotPlanSchema = &genai.Schema{
	Type:        "object",
	Description: "A device program adapted from a recipe for one robot model.",
	Required:    []string{"robot_program", "manual_steps", "warnings", "questions", "cannot_map"},
	Properties: map[string]*genai.Schema{
		"robot_program": {
			Type:        "array",
			Description: "The ordered robot operations.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "A single timed robot operation.",
				Properties: map[string]*genai.Schema{
					"mode": {
						Type:        "string",
						Description: "The robot mode to run, from the profile's modes.",
					},
					"duration_sec": {
						Type:        "integer",
						Description: "How long to run the step, in seconds.",
					},
					"speed": {
						Type:        "integer",
						Description: "The speed setting, null if the step has none.",
						Nullable:    genai.Ptr(true),
					},
					"temperature_c": {
						Type:        "integer",
						Description: "The temperature setting in Celsius, null if the step has none.",
						Nullable:    genai.Ptr(true),
					},
					"attachment": {
						Type:        "string",
						Description: "The attachment to use, null if none.",
						Nullable:    genai.Ptr(true),
					},
					"notes": {
						Type:        "string",
						Description: "Free-form notes about the step.",
						Nullable:    genai.Ptr(true),
					},
				},
				Required: []string{"mode", "duration_sec"},
			},
		},
		"manual_steps": {
			Type:        "array",
			Description: "Actions the user performs by hand, in order.",
			Items:       &genai.Schema{Type: "string"},
		},
		"warnings": {
			Type:        "array",
			Description: "Non-fatal issues found while planning.",
			Items:       &genai.Schema{Type: "string"},
		},
		"questions": {
			Type:        "array",
			Description: "Open clarification questions for the user. Each question must have a stable 'key' plus a human-readable 'prompt'.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "A clarification question.",
				Properties: map[string]*genai.Schema{
					"key": {
						Type:        "string",
						Description: "A stable key identifying the question. Answers are keyed by it.",
					},
					"prompt": {
						Type:        "string",
						Description: "The question to show the user.",
					},
				},
				Required: []string{"key", "prompt"},
			},
		},
		"cannot_map": {
			Type:        "array",
			Description: "Recipe actions that cannot be mapped onto the robot.",
			Items:       &genai.Schema{Type: "string"},
		},
	},
}
