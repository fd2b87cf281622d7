// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"context"
	"os"
	"os/signal"

	"ariga.io/blueprint/cmd/blueprint/internal/cmdapi"
	_ "ariga.io/blueprint/sql/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmdapi.Root.SetOut(os.Stdout)
	err := cmdapi.Root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
