/*
Copyright 2018-2024 Craig Johnston <cjimti@gmail.com>

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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/txn2/gefview/cmd/gefview/version"
	"github.com/txn2/gefview/cmd/gefview/view"
	"github.com/txn2/gefview/pkg/gvstyles"
)

var globalUsage = `Live terminal views of debugger state shared through ~/.gef.

A debugger plugin periodically rewrites a snapshot file; gefview polls it
and repaints the lines in place.`

var Version = "0.0.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gefview",
		Short:         "Live terminal viewer for shared debugger snapshots.",
		Long:          globalUsage,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Unknown command.")
			}
			return view.UsageError(cmd.OutOrStdout(), "expected: gefview view <regs|bt|backtrace>")
		},
	}

	version.Version = Version
	view.Version = Version
	cmd.AddCommand(version.Cmd, view.Cmd)

	return cmd
}

// printError reports a command failure
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, gvstyles.Error("Error: "+err.Error()))
}

func main() {
	cmd := newRootCmd()

	if err := cmd.Execute(); err != nil {
		code := view.ExitCode(err)
		if code != view.ExitUsage {
			printError(os.Stderr, err)
		}
		os.Exit(code)
	}
}
