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

// One-shot duplicate reconciliation. Safe to rerun: a clean catalog yields
// an all-zero summary.
package main

import (
	"encoding/json"
	"flag"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	catalogprovider "github.com/villagekeep/village-catalog-service/internal/catalog/provider"
	"github.com/villagekeep/village-catalog-service/internal/reconciler/service"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

const configFile = "config/deployment.yaml"

func main() {
	vcHome := getVCHome()

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

	reconcileService := service.NewReconcileService(
		catalogprovider.NewCatalogProvider().GetCatalogService(),
		vcConfig.Matching,
	)
	summary, err := reconcileService.Run()
	if err != nil {
		logger.Fatal("Reconciliation failed", log.Error(err))
	}

	logger.Info("Reconciliation completed",
		log.Int("groups", summary.Groups), log.Int("deleted", summary.Deleted),
		log.Int("repointed", summary.Repointed), log.Int("collisions", summary.Collisions),
		log.Int("flagged", summary.Flagged))
	_ = json.NewEncoder(os.Stdout).Encode(summary)
}

func getVCHome() string {

	vcHomeFlag := flag.String("vcHome", "", "Path to the service home directory")
	flag.Parse()

	if *vcHomeFlag != "" {
		return *vcHomeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
