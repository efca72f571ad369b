/*
Copyright 2025 Flant JSC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controllers

import (
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/manager"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	appcontroller "github.com/suhassrivats/simple-k8s-operator/internal/controllers/app_controller"
	"github.com/suhassrivats/simple-k8s-operator/internal/apps"
)

type controllersConfig interface {
	IsControllerEnabled(name string) bool
	MaxConcurrentReconciles() int
}

// BuildAll builds all enabled controllers and registers their metrics
// with the manager's metrics registry.
func BuildAll(mgr manager.Manager, cfg controllersConfig) error {
	metrics := apps.NewMetrics()
	metrics.MustRegister(crmetrics.Registry)

	for _, v := range appcontroller.Variants() {
		if !cfg.IsControllerEnabled(v.ControllerName) {
			mgr.GetLogger().Info("controller disabled", "controller", v.ControllerName)
			continue
		}

		if err := appcontroller.BuildController(mgr, v, metrics, cfg.MaxConcurrentReconciles()); err != nil {
			return fmt.Errorf("building %s: %w", v.ControllerName, err)
		}
	}

	return nil
}
