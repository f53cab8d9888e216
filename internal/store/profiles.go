// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/curioswitch/robochef/internal/robodb"
)

// Profiles is a directory of robot capability profiles, one YAML
// document per robot model. Profiles are read-only.
type Profiles struct {
	dir string
}

// NewProfiles returns a profile repository rooted at dir.
func NewProfiles(dir string) *Profiles {
	return &Profiles{dir: dir}
}

// Get returns the profile for the given robot model.
func (p *Profiles) Get(_ context.Context, robotModel string) (*robodb.RobotProfile, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, robotModel+".yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: robot profile %s", ErrNotFound, robotModel)
		}
		return nil, fmt.Errorf("store: reading robot profile %s: %w", robotModel, err)
	}
	var profile robodb.RobotProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("store: unmarshalling robot profile %s: %w", robotModel, err)
	}
	return &profile, nil
}
