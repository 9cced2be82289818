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

import "sync"

// VCRuntime holds the runtime configuration for the catalog service.
type VCRuntime struct {
	VCHome string `yaml:"vc_home"`
	Config Config `yaml:"config"`
}

var (
	runtimeConfig *VCRuntime
	once          sync.Once
)

// InitializeRuntime initializes the VCRuntime configuration.
func InitializeRuntime(vcHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &VCRuntime{
			VCHome: vcHome,
			Config: *config,
		}
	})

	return nil
}

// GetRuntime returns the VCRuntime configuration.
func GetRuntime() *VCRuntime {

	if runtimeConfig == nil {
		panic("VCRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideRuntime replaces the runtime configuration. Test hook.
func OverrideRuntime(conf Config) {
	runtimeConfig = &VCRuntime{
		Config: conf,
	}
}
