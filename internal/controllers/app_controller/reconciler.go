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
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/suhassrivats/simple-k8s-operator/internal/apps"
)

type Reconciler struct {
	cl        client.Client
	scheme    *runtime.Scheme
	converger *apps.Converger
	log       logr.Logger
	variant   Variant
}

var _ reconcile.Reconciler = (*Reconciler)(nil)

func NewReconciler(
	cl client.Client,
	scheme *runtime.Scheme,
	converger *apps.Converger,
	log logr.Logger,
	variant Variant,
) *Reconciler {
	return &Reconciler{
		cl:        cl,
		scheme:    scheme,
		converger: converger,
		log:       log,
		variant:   variant,
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, req reconcile.Request) (reconcile.Result, error) {
	log := r.log.WithName("Reconcile").WithValues("req", req)

	owner := r.variant.NewOwner()
	if err := r.cl.Get(ctx, req.NamespacedName, owner); err != nil {
		return reconcile.Result{}, client.IgnoreNotFound(err)
	}

	if !owner.GetDeletionTimestamp().IsZero() {
		log.V(1).Info("owner is being deleted, skipping")
		return reconcile.Result{}, nil
	}

	desired := apps.Normalize(owner.GetAppSpec())
	targets := apps.Build(owner.GetName(), desired, r.variant.ManagesConfig).Ordered()

	for _, obj := range targets {
		obj.SetNamespace(owner.GetNamespace())
		if err := controllerutil.SetControllerReference(owner, obj, r.scheme); err != nil {
			log.Error(err, "unable to set controller reference", "target", obj.GetName())
			return reconcile.Result{}, fmt.Errorf("setting controller reference on %s: %w", obj.GetName(), err)
		}
	}

	res, err := r.converger.Converge(ctx, owner, targets)
	if err != nil {
		log.Error(err, "converge failed", "converged", res.String())
		return reconcile.Result{}, err
	}

	log.V(1).Info("reconciled", "converged", res.String())
	return reconcile.Result{}, nil
}
