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

// Package appcontroller implements the simpleapp-controller and the
// configmapapp-controller. Both run the same reconciler, parameterized by a
// Variant.
//
// # Controller Responsibilities
//
//   - SimpleApp (demo.mycompany.com/v1): one Deployment "<name>-deployment"
//   - ConfigMapApp (demo.mycompany.com/v1): the same Deployment, plus a
//     ConfigMap "<name>-configmap" mounted at /etc/config
//
// # Watched Resources
//
// The controllers watch only their owner kind. Reconciles are triggered by:
//   - create events
//   - update events that change metadata.generation (spec changes)
//   - periodic resync (update events without a new resourceVersion)
//
// Delete events are ignored: managed objects carry a controller owner
// reference and are removed by the garbage collector.
//
// # Reconciliation Flow
//
//  1. Get the owner; a missing owner is not an error
//  2. Skip owners with a deletion timestamp
//  3. Normalize the spec and build the targets (see package apps)
//  4. Place every target in the owner namespace and set a controller
//     owner reference on it
//  5. Converge the targets: create, or patch on AlreadyExists
//
// Errors are returned to controller-runtime, which requeues with backoff.
package appcontroller
