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

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

// ConfigMapApp declares a Deployment together with a ConfigMap mounted into it.
// +kubebuilder:object:generate=true
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced,path=configmapapps,shortName=cma
// +kubebuilder:printcolumn:name="Image",type=string,JSONPath=`.spec.image`
// +kubebuilder:printcolumn:name="Replicas",type=integer,JSONPath=`.spec.replicas`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`,description="The age of this resource"
type ConfigMapApp struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`
	Spec              ConfigMapAppSpec `json:"spec"`
}

// ConfigMapAppList contains a list of ConfigMapApp
// +kubebuilder:object:generate=true
// +kubebuilder:object:root=true
type ConfigMapAppList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata"`
	Items           []ConfigMapApp `json:"items"`
}

// +kubebuilder:object:generate=true
type ConfigMapAppSpec struct {
	// Container image of the managed Deployment.
	Image string `json:"image,omitempty"`
	// Number of desired pods. Defaults to 1.
	// +kubebuilder:validation:Minimum=0
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`
	// Data of the managed ConfigMap, mounted at /etc/config.
	// Keys must be valid ConfigMap keys; the API server rejects invalid ones.
	// +optional
	ConfigData map[string]string `json:"configData,omitempty"`
}

var _ App = &ConfigMapApp{}

func (a *ConfigMapApp) GetAppSpec() AppSpec {
	return AppSpec{
		Image:      a.Spec.Image,
		Replicas:   a.Spec.Replicas,
		ConfigData: a.Spec.ConfigData,
	}
}
