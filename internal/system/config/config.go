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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// Curators is the allow-list of reviewer identities permitted to
	// approve, reject or undo staged changes.
	Curators []string `yaml:"curators"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// CandidatePoolConfig points at the MongoDB holding scraped candidate records.
type CandidatePoolConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// MatchingConfig carries the tunable knobs of the matching engine. The
// defaults mirror the 0.5/0.3/0.2 weighting the scraper pipeline always used.
type MatchingConfig struct {
	NameMatchFloor       float64 `yaml:"name_match_floor"`
	NameWeight           float64 `yaml:"name_weight"`
	CompletenessWeight   float64 `yaml:"completeness_weight"`
	CorroborationWeight  float64 `yaml:"corroboration_weight"`
	PriorityHigh         float64 `yaml:"priority_high"`
	PriorityMediumHigh   float64 `yaml:"priority_medium_high"`
	PriorityMedium       float64 `yaml:"priority_medium"`
	NearDuplicateFlagMin float64 `yaml:"near_duplicate_flag_min"`
}

type ScraperConfig struct {
	ListingURL       string `yaml:"listing_url"`
	SourceIdentifier string `yaml:"source_identifier"`
	Headless         bool   `yaml:"headless"`
}

type Config struct {
	Addr          AddrConfig          `yaml:"addr"`
	Log           LogConfig           `yaml:"log"`
	Auth          AuthConfig          `yaml:"auth"`
	DataSource    DataSourceConfig    `yaml:"datasource"`
	CandidatePool CandidatePoolConfig `yaml:"candidate_pool"`
	Matching      MatchingConfig      `yaml:"matching"`
	Scraper       ScraperConfig       `yaml:"scraper"`
}
