// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package robodb holds the domain model shared across the service:
// canonical recipes, robot profiles, robot plans, and the request and
// response records of the generation API, along with the genai response
// schemas used to constrain generative output to those shapes.
package robodb

// Ptr returns a pointer to v, for filling optional model fields.
func Ptr[T any](v T) *T {
	return &v
}
