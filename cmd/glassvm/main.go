/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command glassvm is the CLI front-end over package vm (SPEC_FULL.md
// domain-stack item J): it parses a classpath and a main-class name and
// hands both to vm.VM.Start, matching spec §6's "Primary VM entry"
// contract (exit 0 clean, 1 uncaught Java exception, 2 VM-internal
// failure) one-for-one with cobra's own exit-code convention.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glassvm/glassvm/shutdown"
	"github.com/glassvm/glassvm/vm"
)

var (
	classpath   string
	classpathCp string
)

var rootCmd = &cobra.Command{
	Use:   "glassvm <main-class> [args...]",
	Short: "glassvm: an embeddable Java Virtual Machine",
	Long: `glassvm loads, links, and runs a compiled Java class (JVMS SE 8
class-file format) against a classpath of directories, .jar archives, or
dir/* globs, then invokes its public static void main(String[]).`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cp := classpath
		if cmd.Flags().Changed("cp") {
			cp = classpathCp
		}
		cfg := vm.Config{
			Classpath: cp,
			MainClass: args[0],
			Args:      args[1:],
		}
		machine, err := vm.New(cfg)
		if err != nil {
			return err
		}
		shutdown.Exit(machine.Start())
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&classpath, "classpath", "c", ".", "colon-delimited classpath: directories, .jar files, or dir/* globs")
	rootCmd.Flags().StringVar(&classpathCp, "cp", ".", "alias of --classpath, matching javac/java's own flag")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		shutdown.Exit(shutdown.JVMException)
	}
}
