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

package apps

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

const (
	EventReasonCreated = "Created"
	EventReasonUpdated = "Updated"
)

// CreateOutcome is the result of a create attempt.
type CreateOutcome int

const (
	// CreateOutcomeCreated: the object did not exist and was created.
	CreateOutcomeCreated CreateOutcome = iota
	// CreateOutcomeConflict: an object with the same name already exists.
	CreateOutcomeConflict
	// CreateOutcomeError: the API server rejected the create for another reason.
	CreateOutcomeError
)

func (o CreateOutcome) String() string {
	switch o {
	case CreateOutcomeCreated:
		return "Created"
	case CreateOutcomeConflict:
		return "Conflict"
	case CreateOutcomeError:
		return "Error"
	default:
		return fmt.Sprintf("CreateOutcome(%d)", int(o))
	}
}

// Converger writes built targets to the cluster with create-or-patch
// semantics. It holds no state between calls.
type Converger struct {
	cl       client.Client
	recorder record.EventRecorder
	metrics  *Metrics
	log      logr.Logger
}

func NewConverger(cl client.Client, recorder record.EventRecorder, metrics *Metrics, log logr.Logger) *Converger {
	return &Converger{
		cl:       cl,
		recorder: recorder,
		metrics:  metrics,
		log:      log,
	}
}

// Converge writes targets in the given order into the owner's namespace.
// The first fatal error stops the loop; the returned Result still lists the
// targets converged before it.
func (c *Converger) Converge(ctx context.Context, owner client.Object, targets []client.Object) (Result, error) {
	log := c.log.WithName("Converge").WithValues("owner", client.ObjectKeyFromObject(owner))

	res := Result{Steps: make([]Step, 0, len(targets))}

	for _, obj := range targets {
		obj.SetNamespace(owner.GetNamespace())

		kind := c.kindOf(obj)
		name := obj.GetName()

		outcome, err := c.create(ctx, obj)

		var op Operation
		switch outcome {
		case CreateOutcomeCreated:
			op = OperationCreated
		case CreateOutcomeConflict:
			log.V(1).Info("target already exists, patching", "kind", kind, "name", name)
			if err := c.patch(ctx, obj); err != nil {
				c.metrics.observe(kind, OperationFailed)
				return res, fmt.Errorf("patching %s %s: %w", kind, name, err)
			}
			op = OperationUpdated
		default:
			c.metrics.observe(kind, OperationFailed)
			return res, fmt.Errorf("creating %s %s: %w", kind, name, err)
		}

		res.Steps = append(res.Steps, Step{Kind: kind, Name: name, Operation: op})
		c.metrics.observe(kind, op)
		c.notify(owner, kind, name, op)
		log.Info("target converged", "kind", kind, "name", name, "operation", op)
	}

	return res, nil
}

func (c *Converger) create(ctx context.Context, obj client.Object) (CreateOutcome, error) {
	err := c.cl.Create(ctx, obj)
	switch {
	case err == nil:
		return CreateOutcomeCreated, nil
	case apierrors.IsAlreadyExists(err):
		return CreateOutcomeConflict, nil
	default:
		return CreateOutcomeError, err
	}
}

func (c *Converger) patch(ctx context.Context, obj client.Object) error {
	p, err := managedFieldsPatch(obj)
	if err != nil {
		return err
	}
	return c.cl.Patch(ctx, obj, p)
}

func (c *Converger) notify(owner client.Object, kind, name string, op Operation) {
	if c.recorder == nil {
		return
	}

	reason := EventReasonCreated
	if op == OperationUpdated {
		reason = EventReasonUpdated
	}

	c.recorder.Eventf(owner, corev1.EventTypeNormal, reason, "%s %s %s", kind, name, op)
}

func (c *Converger) kindOf(obj client.Object) string {
	if kind := obj.GetObjectKind().GroupVersionKind().Kind; kind != "" {
		return kind
	}
	gvk, err := apiutil.GVKForObject(obj, c.cl.Scheme())
	if err != nil {
		return fmt.Sprintf("%T", obj)
	}
	return gvk.Kind
}
