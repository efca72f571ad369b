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
	"encoding/json"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

type jsonPatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// managedFieldsPatch builds a JSON patch that sets every field owned by
// this package to its built value. "add" replaces an existing member
// as a whole, so keys dropped from the built maps are dropped from the
// live object too. Fields owned by other writers (annotations, status)
// are not touched.
func managedFieldsPatch(obj client.Object) (client.Patch, error) {
	ops := []jsonPatchOp{
		{Op: "add", Path: "/metadata/labels", Value: obj.GetLabels()},
	}

	if refs := obj.GetOwnerReferences(); len(refs) > 0 {
		ops = append(ops, jsonPatchOp{Op: "add", Path: "/metadata/ownerReferences", Value: refs})
	}

	switch o := obj.(type) {
	case *appsv1.Deployment:
		ops = append(ops,
			jsonPatchOp{Op: "add", Path: "/spec/replicas", Value: o.Spec.Replicas},
			jsonPatchOp{Op: "add", Path: "/spec/selector", Value: o.Spec.Selector},
			jsonPatchOp{Op: "add", Path: "/spec/template", Value: o.Spec.Template},
		)
	case *corev1.ConfigMap:
		ops = append(ops, jsonPatchOp{Op: "add", Path: "/data", Value: o.Data})
	default:
		return nil, fmt.Errorf("unsupported target type %T", obj)
	}

	data, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshalling patch: %w", err)
	}

	return client.RawPatch(types.JSONPatchType, data), nil
}
