package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var checkFlag bool

// printInfo prints informational messages. Tests override it.
var printInfo = func(msg string) {
	fmt.Println(msg)
}

// httpClient fetches release info. Tests override it.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// releasesAPI is the latest-release endpoint. Tests override it.
var releasesAPI = "https://api.github.com/repos/zjrosen/inlineedit/releases/latest"

// getVersion returns the running version. Tests override it.
var getVersion = func() string {
	return version
}

type githubRelease struct {
	TagName string `json:"tag_name"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inlineedit version",
	Long: `Print the inlineedit version.

With --check, also ask GitHub for the latest release and report whether a
newer one exists.

Examples:
  inlineedit version
  inlineedit version --check`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&checkFlag, "check", false, "check for a newer release")
}

func runVersion(cmd *cobra.Command, args []string) error {
	current := getVersion()
	printInfo("inlineedit " + current)
	if !checkFlag {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	latest, err := fetchLatestRelease(ctx)
	if err != nil {
		return fmt.Errorf("checking latest release: %w", err)
	}
	if isAlreadyLatest(current, latest) {
		printInfo(fmt.Sprintf("Already on the latest version (%s)", latest))
		return nil
	}
	printInfo(fmt.Sprintf("A newer version is available: %s", latest))
	return nil
}

// fetchLatestRelease fetches the latest release tag from GitHub.
func fetchLatestRelease(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesAPI, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

// isAlreadyLatest compares versions with or without a "v" prefix, ignoring
// git describe suffixes such as "-6-gaa951141-dirty".
func isAlreadyLatest(current, latest string) bool {
	base := func(v string) string {
		v = strings.TrimPrefix(v, "v")
		if i := strings.Index(v, "-"); i != -1 {
			v = v[:i]
		}
		return v
	}
	return base(current) == base(latest)
}
