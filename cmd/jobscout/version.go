package main

import (
	"fmt"
	"runtime"
	rtdebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/feed"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, build and feed info",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionString() string {
	rev := commit
	if rev == "" {
		rev = vcsRevision()
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev == "" {
		rev = "unknown"
	}
	return fmt.Sprintf("jobscout %s (commit %s, %s %s/%s)\nsource: %s <%s>",
		version, rev, runtime.Version(), runtime.GOOS, runtime.GOARCH,
		feed.SourceName, config.DefaultFeedURL)
}

func vcsRevision() string {
	info, ok := rtdebug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
