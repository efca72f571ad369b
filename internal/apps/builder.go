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

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	demov1 "github.com/suhassrivats/simple-k8s-operator/api/v1"
)

const (
	ContainerName    = "app"
	ConfigVolumeName = "config-volume"
	ConfigMountPath  = "/etc/config"

	deploymentSuffix = "-deployment"
	configMapSuffix  = "-configmap"
)

func DeploymentName(ownerName string) string { return ownerName + deploymentSuffix }

func ConfigMapName(ownerName string) string { return ownerName + configMapSuffix }

// Targets holds the objects built for one owner.
// Configuration is nil unless the owner manages a ConfigMap.
type Targets struct {
	Workload      *appsv1.Deployment
	Configuration *corev1.ConfigMap
}

// Ordered returns the targets in convergence order: the Deployment first,
// then the ConfigMap. The API server does not check that a ConfigMap volume
// source exists when the Deployment is written, so this order is safe on
// first creation.
func (t Targets) Ordered() []client.Object {
	objs := make([]client.Object, 0, 2)
	if t.Workload != nil {
		objs = append(objs, t.Workload)
	}
	if t.Configuration != nil {
		objs = append(objs, t.Configuration)
	}
	return objs
}

// Build maps the desired state to target objects. It performs no I/O and
// returns fresh objects on every call; namespace and owner references are
// left for the caller.
func Build(ownerName string, ds DesiredState, managesConfig bool) Targets {
	t := Targets{
		Workload: buildDeployment(ownerName, ds, managesConfig),
	}
	if managesConfig {
		t.Configuration = buildConfigMap(ownerName, ds)
	}
	return t
}

func buildDeployment(ownerName string, ds DesiredState, managesConfig bool) *appsv1.Deployment {
	container := corev1.Container{
		Name:  ContainerName,
		Image: ds.Image,
	}

	podSpec := corev1.PodSpec{}

	if managesConfig {
		container.VolumeMounts = []corev1.VolumeMount{
			{
				Name:      ConfigVolumeName,
				MountPath: ConfigMountPath,
			},
		}
		podSpec.Volumes = []corev1.Volume{
			{
				Name: ConfigVolumeName,
				VolumeSource: corev1.VolumeSource{
					ConfigMap: &corev1.ConfigMapVolumeSource{
						LocalObjectReference: corev1.LocalObjectReference{
							Name: ConfigMapName(ownerName),
						},
					},
				},
			},
		}
	}

	podSpec.Containers = []corev1.Container{container}

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:   DeploymentName(ownerName),
			Labels: appLabels(ownerName),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(ds.Replicas),
			// selector and template labels must stay equal, otherwise the
			// API server rejects the Deployment
			Selector: &metav1.LabelSelector{
				MatchLabels: appLabels(ownerName),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: appLabels(ownerName),
				},
				Spec: podSpec,
			},
		},
	}
}

func buildConfigMap(ownerName string, ds DesiredState) *corev1.ConfigMap {
	data := maps.Clone(ds.ConfigData)
	if data == nil {
		data = map[string]string{}
	}

	return &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			APIVersion: corev1.SchemeGroupVersion.String(),
			Kind:       "ConfigMap",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:   ConfigMapName(ownerName),
			Labels: appLabels(ownerName),
		},
		Data: data,
	}
}

// appLabels returns a new map on every call, so built objects never share
// label maps.
func appLabels(ownerName string) map[string]string {
	return map[string]string{demov1.AppLabelKey: ownerName}
}
