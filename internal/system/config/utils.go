/*
 * Copyright (c) 2026, Villagekeep Project.
 *
 * Villagekeep licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment yaml, expands environment references and
// fills in matching defaults for any knob left unset.
func LoadConfig(vcHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(vcHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyMatchingDefaults(&cfg.Matching)
	return &cfg, nil
}

// DefaultMatchingConfig returns the stock matching knobs.
func DefaultMatchingConfig() MatchingConfig {
	m := MatchingConfig{}
	applyMatchingDefaults(&m)
	return m
}

func applyMatchingDefaults(m *MatchingConfig) {
	if m.NameMatchFloor == 0 {
		m.NameMatchFloor = 0.6
	}
	if m.NameWeight == 0 {
		m.NameWeight = 0.5
	}
	if m.CompletenessWeight == 0 {
		m.CompletenessWeight = 0.3
	}
	if m.CorroborationWeight == 0 {
		m.CorroborationWeight = 0.2
	}
	if m.PriorityHigh == 0 {
		m.PriorityHigh = 0.9
	}
	if m.PriorityMediumHigh == 0 {
		m.PriorityMediumHigh = 0.8
	}
	if m.PriorityMedium == 0 {
		m.PriorityMedium = 0.5
	}
	if m.NearDuplicateFlagMin == 0 {
		m.NearDuplicateFlagMin = 0.85
	}
}
