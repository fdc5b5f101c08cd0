// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command aamctl explores programs with the abstract machine and
// inspects the results.
package main

import (
	"fmt"
	"os"

	"github.com/abstractmachine/aam/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aamctl:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
