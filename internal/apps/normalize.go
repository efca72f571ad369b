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
	"maps"

	demov1 "github.com/suhassrivats/simple-k8s-operator/api/v1"
)

const DefaultReplicas int32 = 1

// DesiredState is the defaulted form of a declared app spec.
type DesiredState struct {
	// Image is forwarded as declared. An empty image is not rejected here,
	// the API server rejects the Deployment instead.
	Image      string
	Replicas   int32
	ConfigData map[string]string
}

// Normalize applies defaults to the declared spec. ConfigData is copied,
// so the result does not alias the owner object.
func Normalize(spec demov1.AppSpec) DesiredState {
	ds := DesiredState{
		Image:      spec.Image,
		Replicas:   DefaultReplicas,
		ConfigData: map[string]string{},
	}

	if spec.Replicas != nil {
		ds.Replicas = *spec.Replicas
	}

	if spec.ConfigData != nil {
		ds.ConfigData = maps.Clone(spec.ConfigData)
	}

	return ds
}
