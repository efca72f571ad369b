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

// Package crdvalidation validates CRD manifests with the same validation the
// API server runs on CustomResourceDefinition create.
package crdvalidation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	apiextensions "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions"
	"k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/install"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsvalidation "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/validation"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
)

var ErrNoCRDs = errors.New("no CRD files found")

type Validator struct {
	scheme  *runtime.Scheme
	decoder runtime.Decoder
}

func NewValidator() *Validator {
	scheme := runtime.NewScheme()
	install.Install(scheme)
	return &Validator{
		scheme:  scheme,
		decoder: serializer.NewCodecFactory(scheme).UniversalDeserializer(),
	}
}

// Decode parses a single CRD manifest.
func (v *Validator) Decode(data []byte) (*apiextensionsv1.CustomResourceDefinition, error) {
	obj, _, err := v.decoder.Decode(data, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	crd, ok := obj.(*apiextensionsv1.CustomResourceDefinition)
	if !ok {
		return nil, fmt.Errorf("expected *v1.CustomResourceDefinition, got %T", obj)
	}
	return crd, nil
}

// Validate decodes a CRD manifest and runs the API server validation on it.
func (v *Validator) Validate(ctx context.Context, data []byte) (*apiextensionsv1.CustomResourceDefinition, error) {
	v1CRD, err := v.Decode(data)
	if err != nil {
		return nil, err
	}

	crd := &apiextensions.CustomResourceDefinition{}
	if err := v.scheme.Convert(v1CRD, crd, nil); err != nil {
		return nil, fmt.Errorf("converting v1 to internal: %w", err)
	}

	var errs []error
	for _, e := range apiextensionsvalidation.ValidateCustomResourceDefinition(ctx, crd) {
		// storedVersions is set by the API server at runtime.
		if strings.Contains(e.Field, "storedVersions") {
			continue
		}
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return v1CRD, nil
}

// ValidateFS validates every *.yaml file at the root of fsys whose name
// starts with prefix, and returns the CRDs keyed by file name.
func (v *Validator) ValidateFS(ctx context.Context, fsys fs.FS, prefix string) (map[string]*apiextensionsv1.CustomResourceDefinition, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading CRD directory: %w", err)
	}

	crds := make(map[string]*apiextensionsv1.CustomResourceDefinition)
	var errs []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" || !strings.HasPrefix(name, prefix) {
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: reading file: %w", name, err))
			continue
		}

		crd, err := v.Validate(ctx, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		crds[name] = crd
	}

	if len(crds) == 0 && len(errs) == 0 {
		return nil, ErrNoCRDs
	}
	return crds, errors.Join(errs...)
}
