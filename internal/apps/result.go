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

import "strings"

type Operation string

const (
	OperationCreated Operation = "created"
	OperationUpdated Operation = "updated"
	OperationFailed  Operation = "failed"
)

// Step records what happened to one target.
type Step struct {
	Kind      string
	Name      string
	Operation Operation
}

// Result lists the converged targets in the order they were written.
// A failed target is not listed.
type Result struct {
	Steps []Step
}

func (r Result) Count(op Operation) int {
	n := 0
	for _, s := range r.Steps {
		if s.Operation == op {
			n++
		}
	}
	return n
}

func (r Result) String() string {
	parts := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		parts = append(parts, s.Kind+"/"+s.Name+"="+string(s.Operation))
	}
	return strings.Join(parts, ",")
}
