/*
 * main.go, part of gorelax.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

// Command gorelax runs YAML scripts of gorelax operations.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	relax "github.com/rmera/gorelax"
	"github.com/spf13/cobra"
)

// Version of gorelax.
const Version = "0.3.0"

var verbose bool

var (
	rootCmd = &cobra.Command{
		Use:   "gorelax",
		Short: "NMR relaxation data analysis",
		Long: `gorelax runs scripts of operations on data pipes: sequence and peak
intensity loading, relaxation curve fitting, NOE calculation, Monte Carlo
error analysis and saving of the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	runCmd = &cobra.Command{
		Use:   "run script.yaml",
		Short: "Run a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := ReadScript(args[0])
			if err != nil {
				return err
			}
			R := NewRunner(S.Dir)
			return R.Run(S)
		},
	}
	validateCmd = &cobra.Command{
		Use:   "validate script.yaml",
		Short: "Check a script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := ReadScript(args[0])
			if err != nil {
				return err
			}
			if err := S.Check(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d valid steps\n", args[0], len(S.Steps))
			return nil
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gorelax %s\n", Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debugging information")
	rootCmd.AddCommand(runCmd, validateCmd, versionCmd)
}

// report logs err along with its call trace, if it has one.
func report(err error) {
	var e relax.ErrorDecorator
	if errors.As(err, &e) {
		slog.Error(err.Error(), "trace", strings.Join(e.Decorate(""), " < "))
		return
	}
	slog.Error(err.Error())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		report(err)
		os.Exit(1)
	}
}
