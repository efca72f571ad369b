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

package v1

// AppSpec is the variant-independent view of a declared app spec.
// Both SimpleApp and ConfigMapApp project their spec into it.
//
// Optional fields are pointers or nil-able maps, so an absent field
// can be told apart from an explicit zero value.
type AppSpec struct {
	Image      string
	Replicas   *int32
	ConfigData map[string]string
}

// App is implemented by every owning resource kind of this group.
// +kubebuilder:object:generate=false
type App interface {
	GetAppSpec() AppSpec
}
