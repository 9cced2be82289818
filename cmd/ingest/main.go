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

// Loads a JSON file of candidate records into the candidate pool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/villagekeep/village-catalog-service/internal/candidates/model"
	candidateservice "github.com/villagekeep/village-catalog-service/internal/candidates/service"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

const configFile = "config/deployment.yaml"

func main() {
	vcHomeFlag := flag.String("vcHome", "", "Path to the service home directory")
	fileFlag := flag.String("file", "", "Path to a JSON file holding an array of candidate records")
	flag.Parse()

	vcHome := getVCHome(*vcHomeFlag)
	if *fileFlag == "" {
		stdlog.Fatal("The -file flag is required")
	}

	envFiles, _ := filepath.Glob("config/*.env")
	_ = godotenv.Load(envFiles...)

	vcConfig, err := config.LoadConfig(vcHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.InitializeRuntime(vcHome, vcConfig); err != nil {
		stdlog.Fatalf("Failed to initialize runtime: %v", err)
	}
	if err := log.Init(vcConfig.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	data, err := os.ReadFile(*fileFlag)
	if err != nil {
		logger.Fatal("Failed to read candidate file", log.Error(err))
	}
	var records []model.CandidateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Fatal("Failed to parse candidate file", log.Error(err))
	}

	report, err := candidateservice.GetCandidateService().Ingest(context.Background(), records)
	if err != nil {
		logger.Fatal("Candidate ingest failed", log.Error(err))
	}
	logger.Info("Candidate ingest finished",
		log.Int("accepted", report.Accepted), log.Int("rejected", len(report.Rejected)))
	_ = json.NewEncoder(os.Stdout).Encode(report)
}

func getVCHome(flagValue string) string {

	if flagValue != "" {
		return flagValue
	}
	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
