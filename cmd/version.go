package cmd

import (
	"errors"
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// Repository is the GitHub repository releases are published to
const Repository = "s0up4200/marquee"

var (
	buildVersion = "dev"
	buildDate    = "unknown"

	checkOnly bool
)

// SetVersion records build metadata injected by the linker
func SetVersion(version, buildTime string) {
	buildVersion = version
	buildDate = buildTime
	rootCmd.Version = version
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// no config needed
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee %s (built %s)\n", formatVersion(buildVersion), buildDate)
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update marquee to the latest release",
	Long:  `Check GitHub for a newer release and replace the running binary with it.`,
	Args:  cobra.NoArgs,
	// the binary may be misconfigured; updating must still work
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	RunE:               runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// parseVersion parses a build version such as "v1.2.3". Development
// builds have no semantic version.
func parseVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errors.New("development build")
	}
	return semver.ParseTolerant(v)
}

func formatVersion(v string) string {
	parsed, err := parseVersion(v)
	if err != nil {
		return v
	}
	return "v" + parsed.String()
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := parseVersion(buildVersion)
	if err != nil {
		return fmt.Errorf("cannot update version %q: %w", buildVersion, err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(Repository))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", Repository)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "✓ marquee v%s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "Update available: v%s → v%s\n", current, latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	fmt.Fprintf(out, "→ Updating v%s to v%s... ", current, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		fmt.Fprintln(out, "✗ Failed")
		return fmt.Errorf("failed to update binary: %w", err)
	}
	fmt.Fprintln(out, "✓ Done")
	return nil
}
