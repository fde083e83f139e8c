package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/dumbtile/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), formatVersion(buildInfo))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func formatVersion(info build.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dumbtile %s\n", orUnknown(info.Version))
	fmt.Fprintf(&b, "  commit:  %s\n", orUnknown(info.Commit))
	fmt.Fprintf(&b, "  built:   %s\n", orUnknown(info.BuildDate))
	fmt.Fprintf(&b, "  go:      %s\n", orUnknown(info.GoVersion))
	fmt.Fprintf(&b, "  repo:    %s\n", build.RepoURL())
	fmt.Fprintf(&b, "  authors: %s\n", strings.Join(build.Contributors(), ", "))
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
