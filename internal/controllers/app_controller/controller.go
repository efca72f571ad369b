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

package appcontroller

import (
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	"github.com/suhassrivats/simple-k8s-operator/internal/apps"
	"github.com/suhassrivats/simple-k8s-operator/internal/controllers/controlleroptions"
)

// BuildController registers the controller of the given variant with the manager.
func BuildController(mgr manager.Manager, v Variant, metrics *apps.Metrics, maxConcurrentReconciles int) error {
	log := mgr.GetLogger().WithName(v.ControllerName)

	converger := apps.NewConverger(
		mgr.GetClient(),
		mgr.GetEventRecorderFor(v.ControllerName),
		metrics,
		log.WithName("Converger"),
	)

	rec := NewReconciler(mgr.GetClient(), mgr.GetScheme(), converger, log.WithName("Reconciler"), v)

	return builder.ControllerManagedBy(mgr).
		Named(v.ControllerName).
		For(v.NewOwner(), builder.WithPredicates(OwnerPredicates()...)).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: maxConcurrentReconciles,
			RateLimiter:             controlleroptions.RateLimiter(),
		}).
		Complete(rec)
}
