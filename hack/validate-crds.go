//go:build ignore

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

// validate-crds validates the CRD manifests in a directory with the API
// server's CustomResourceDefinition validation.
//
//	go run ./hack/validate-crds.go ./crds
package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/suhassrivats/simple-k8s-operator/internal/crdvalidation"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <crds-directory>\n", os.Args[0])
		os.Exit(2)
	}
	crdDir := os.Args[1]

	crds, err := crdvalidation.NewValidator().ValidateFS(context.Background(), os.DirFS(crdDir), "demo.mycompany.com_")
	for _, name := range slices.Sorted(maps.Keys(crds)) {
		fmt.Fprintf(os.Stdout, "  ok   %s\n", name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "  FAIL %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "\n%d CRDs validated, all passed\n", len(crds))
}
