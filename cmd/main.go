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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/deckhouse/sds-common-lib/slogh"
	u "github.com/deckhouse/sds-common-lib/utils"
	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
	crlog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"

	"github.com/suhassrivats/simple-k8s-operator/internal/env"
)

func main() {
	ctx := signals.SetupSignalHandler()
	log := setupLogging(ctx)

	log.Info("simple-k8s-operator starting")

	err := run(ctx, log)
	if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
		// shutdown was requested by a signal; err may still carry cleanup failures
		log.Info("stopped", "err", err)
		return
	}

	log.Error("stopped unexpectedly", "err", err, "ctxerr", ctx.Err())
	os.Exit(1)
}

// setupLogging routes slog, controller-runtime and client-go logs through
// one slogh handler, whose level can be changed at runtime.
func setupLogging(ctx context.Context) *slog.Logger {
	slogh.EnableConfigReload(ctx, nil)
	handler := &slogh.Handler{}

	log := slog.New(handler).With("startedAt", time.Now().Format(time.RFC3339))
	slog.SetDefault(log)

	crlog.SetLogger(logr.FromSlogHandler(handler))
	klog.SetLogger(logr.FromSlogHandler(handler).WithName("client-go"))

	return log
}

func run(ctx context.Context, log *slog.Logger) error {
	envConfig, err := env.GetConfig()
	if err != nil {
		return u.LogError(log, fmt.Errorf("getting env config: %w", err))
	}

	// ctx is canceled as soon as the manager goroutine fails
	eg, ctx := errgroup.WithContext(ctx)

	mgr, err := newManager(ctx, log, envConfig)
	if err != nil {
		return err
	}

	eg.Go(func() error {
		if err := mgr.Start(ctx); err != nil {
			return u.LogError(log, fmt.Errorf("running manager: %w", err))
		}
		return ctx.Err()
	})

	return eg.Wait()
}
