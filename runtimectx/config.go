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

// Package runtimectx assembles the dependency-injected RuntimeContext
// every isolate is built from (§9 "Global state: explicit injected
// context, no package-level statics") and the Config it's read from
// (§6 environment variables and CLI flags).
package runtimectx

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dnrt/dnrt/permission"
)

// Config is the fully-resolved set of knobs an isolate is built from,
// populated from CLI flags (bound through viper, the teacher's config
// library) with environment-variable and built-in fallbacks (§6).
type Config struct {
	// DnrtDir is the root of the local package/HTTP cache store, from
	// --dnrt-dir or $DNRT_DIR, defaulting to the OS user cache directory.
	DnrtDir string

	// HTTPProxy/HTTPSProxy mirror the standard environment variables; the
	// HTTP fetcher's client picks them up via http.ProxyFromEnvironment,
	// not from these fields.
	HTTPProxy  string
	HTTPSProxy string

	// NoColor disables ANSI output formatting, from $NO_COLOR (any
	// non-empty value) or --no-color.
	NoColor bool

	// Jobs bounds the module graph builder's fetch concurrency, from -j/
	// --jobs, defaulting to GOMAXPROCS.
	Jobs int

	// OTelExporterEndpoint configures where structured telemetry is
	// flushed on isolate shutdown (§4.I "flushing telemetry"), from
	// $OTEL_EXPORTER_OTLP_ENDPOINT.
	OTelExporterEndpoint string
	OTelServiceName      string

	// AllowRead/AllowWrite/AllowNet/AllowEnv/AllowRun/AllowFfi/AllowSys are
	// the raw --allow-* flag values, parsed into Descriptors by
	// BuildPermissionEngine (§4.B).
	AllowRead  []string
	AllowWrite []string
	AllowNet   []string
	AllowEnv   []string
	AllowRun   []string
	AllowFfi   []string
	AllowSys   []string
	DenyRead   []string
	DenyWrite  []string
	DenyNet    []string

	// AllowAll corresponds to -A/--allow-all: every permission kind is
	// pre-granted (§4.B "PolicyAllowAll").
	AllowAll bool
	// NoPrompt corresponds to --no-prompt: an unresolved descriptor is
	// denied rather than interactively prompted for.
	NoPrompt bool
}

// BindFlags registers the flags shared by every subcommand that builds an
// isolate or module graph (run, eval, cache, info) onto cmd's flag set and binds them into
// viper under the same names Load reads back.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("dnrt-dir", "", "Root directory for the module and package cache (default: $DNRT_DIR or the OS cache dir)")
	flags.IntP("jobs", "j", 0, "Module graph fetch concurrency (default: GOMAXPROCS)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("allow-all", "A", false, "Allow all permissions")
	flags.Bool("no-prompt", false, "Never interactively prompt for a permission; deny instead")
	flags.StringSlice("allow-read", nil, "Allow file-system read access, optionally scoped to paths")
	flags.StringSlice("allow-write", nil, "Allow file-system write access, optionally scoped to paths")
	flags.StringSlice("allow-net", nil, "Allow network access, optionally scoped to hosts")
	flags.StringSlice("allow-env", nil, "Allow environment variable access, optionally scoped to names")
	flags.StringSlice("allow-run", nil, "Allow subprocess execution, optionally scoped to commands")
	flags.StringSlice("allow-ffi", nil, "Allow dynamic library loading, optionally scoped to paths")
	flags.StringSlice("allow-sys", nil, "Allow system information access, optionally scoped to kinds")
	flags.StringSlice("deny-read", nil, "Deny file-system read access, optionally scoped to paths")
	flags.StringSlice("deny-write", nil, "Deny file-system write access, optionally scoped to paths")
	flags.StringSlice("deny-net", nil, "Deny network access, optionally scoped to hosts")

	for _, name := range []string{
		"dnrt-dir", "jobs", "no-color", "allow-all", "no-prompt",
		"allow-read", "allow-write", "allow-net", "allow-env", "allow-run", "allow-ffi", "allow-sys",
		"deny-read", "deny-write", "deny-net",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	_ = viper.BindEnv("dnrt-dir", "DNRT_DIR")
	_ = viper.BindEnv("no-color", "NO_COLOR")
}

// Load reads a Config from viper's current flag/env/default layers
// (§6). Call after BindFlags has registered the relevant command's flags.
func Load() Config {
	dnrtDir := viper.GetString("dnrt-dir")
	if dnrtDir == "" {
		dnrtDir = defaultDnrtDir()
	}

	jobs := viper.GetInt("jobs")
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	return Config{
		DnrtDir:              dnrtDir,
		HTTPProxy:            os.Getenv("HTTP_PROXY"),
		HTTPSProxy:           os.Getenv("HTTPS_PROXY"),
		NoColor:              os.Getenv("NO_COLOR") != "" || viper.GetBool("no-color"),
		Jobs:                 jobs,
		OTelExporterEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTelServiceName:      envOr("OTEL_SERVICE_NAME", "dnrt"),
		AllowRead:            viper.GetStringSlice("allow-read"),
		AllowWrite:           viper.GetStringSlice("allow-write"),
		AllowNet:             viper.GetStringSlice("allow-net"),
		AllowEnv:             viper.GetStringSlice("allow-env"),
		AllowRun:             viper.GetStringSlice("allow-run"),
		AllowFfi:             viper.GetStringSlice("allow-ffi"),
		AllowSys:             viper.GetStringSlice("allow-sys"),
		DenyRead:             viper.GetStringSlice("deny-read"),
		DenyWrite:            viper.GetStringSlice("deny-write"),
		DenyNet:              viper.GetStringSlice("deny-net"),
		AllowAll:             viper.GetBool("allow-all"),
		NoPrompt:             viper.GetBool("no-prompt"),
	}
}

func defaultDnrtDir() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "dnrt")
	}
	return filepath.Join(os.TempDir(), "dnrt")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// BuildPermissionEngine constructs the permission.Engine a Config
// describes (§4.B): AllowAll short-circuits to PolicyAllowAll with no
// explicit descriptors; otherwise each --allow-*/--deny-* flag value is
// parsed into scoped Descriptors.
func (c Config) BuildPermissionEngine(prompter permission.Prompter) *permission.Engine {
	policy := permission.PolicyPrompt
	if c.AllowAll {
		policy = permission.PolicyAllowAll
	} else if c.NoPrompt {
		policy = permission.PolicyDenyAll
	}

	var allow, deny []permission.Descriptor
	appendFlag := func(kind permission.Kind, values []string, into *[]permission.Descriptor) {
		for _, v := range values {
			*into = append(*into, permission.ParseFlagValue(kind, v)...)
		}
	}
	appendFlag(permission.Read, c.AllowRead, &allow)
	appendFlag(permission.Write, c.AllowWrite, &allow)
	appendFlag(permission.Net, c.AllowNet, &allow)
	appendFlag(permission.Env, c.AllowEnv, &allow)
	appendFlag(permission.Run, c.AllowRun, &allow)
	appendFlag(permission.Ffi, c.AllowFfi, &allow)
	appendFlag(permission.Sys, c.AllowSys, &allow)
	appendFlag(permission.Read, c.DenyRead, &deny)
	appendFlag(permission.Write, c.DenyWrite, &deny)
	appendFlag(permission.Net, c.DenyNet, &deny)

	if c.NoPrompt {
		prompter = nil
	}
	return permission.New(allow, deny, policy, prompter)
}
