/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Command dnrt is a secure, general-purpose JavaScript/TypeScript runtime
// core: it resolves, fetches, transpiles, and evaluates module graphs
// under an explicit permission model (§1-§9).
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dnrt/dnrt/cmd/cache"
	"github.com/dnrt/dnrt/cmd/eval"
	"github.com/dnrt/dnrt/cmd/info"
	"github.com/dnrt/dnrt/cmd/peripheral"
	"github.com/dnrt/dnrt/cmd/run"
	"github.com/dnrt/dnrt/cmd/version"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "dnrt",
		Short: "A secure JavaScript/TypeScript runtime core",
		Long: `dnrt resolves, fetches, transpiles, and evaluates JavaScript and TypeScript
module graphs under an explicit, descriptor-based permission model.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	rootCmd.AddCommand(run.Cmd)
	rootCmd.AddCommand(eval.Cmd)
	rootCmd.AddCommand(cache.Cmd)
	rootCmd.AddCommand(info.Cmd)
	rootCmd.AddCommand(version.Cmd)
	for _, stub := range peripheral.Commands() {
		rootCmd.AddCommand(stub)
	}

	viper.SetEnvPrefix("dnrt")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
