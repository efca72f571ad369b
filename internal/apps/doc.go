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

// Package apps converges the objects declared by SimpleApp and ConfigMapApp
// resources into the cluster.
//
// # Pipeline
//
// Every reconcile runs the same three steps, once, in order:
//
//  1. Normalize: the declared spec is defaulted into a DesiredState
//     (replicas default to 1, configData defaults to an empty map, image
//     has no default).
//  2. Build: DesiredState is mapped to the target objects. Names and labels
//     are pure functions of the owner name:
//     - Deployment "<owner>-deployment", labeled and selected by app=<owner>
//     - ConfigMap "<owner>-configmap" (ConfigMapApp only), mounted into the
//     Deployment at /etc/config through the "config-volume" volume
//  3. Converge: every target is created, or patched when it already exists,
//     in the order returned by Targets.Ordered (Deployment first).
//
// # Create-or-patch
//
// The Converger never reads before writing. It attempts a create and
// dispatches on the CreateOutcome:
//   - Created: done, a "Created" event is recorded on the owner
//   - Conflict: the name is taken, exactly one JSON patch with the built
//     body follows; success records an "Updated" event
//   - Error: any other API error stops the reconcile; later targets are
//     not attempted
//
// A failed patch is fatal as well. Nothing is retried here: the caller
// requeues the whole reconcile. Objects already converged in a failed call
// are left in place and finished by the next call.
package apps
