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
	"sigs.k8s.io/controller-runtime/pkg/client"

	demov1 "github.com/suhassrivats/simple-k8s-operator/api/v1"
)

const (
	SimpleAppControllerName    = "simpleapp-controller"
	ConfigMapAppControllerName = "configmapapp-controller"
)

// Owner is an owning resource of any variant.
type Owner interface {
	client.Object
	demov1.App
}

// Variant selects the owner kind and the set of targets built for it.
type Variant struct {
	ControllerName string
	ManagesConfig  bool
	NewOwner       func() Owner
}

var (
	SimpleApp = Variant{
		ControllerName: SimpleAppControllerName,
		ManagesConfig:  false,
		NewOwner:       func() Owner { return &demov1.SimpleApp{} },
	}

	ConfigMapApp = Variant{
		ControllerName: ConfigMapAppControllerName,
		ManagesConfig:  true,
		NewOwner:       func() Owner { return &demov1.ConfigMapApp{} },
	}
)

func Variants() []Variant {
	return []Variant{SimpleApp, ConfigMapApp}
}
