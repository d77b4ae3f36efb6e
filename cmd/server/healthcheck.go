package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vivacrm/dashboard-api/internal/config"
)

var (
	healthURL     string
	healthTimeout time.Duration
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check a running instance's /health endpoint",
	Long: `healthcheck exits 0 when the service answers 200 on its liveness
endpoint and 1 otherwise. Intended for container HEALTHCHECK directives,
where no curl or wget is available.`,
	PreRunE: func(*cobra.Command, []string) error {
		config.LoadDotEnv()
		if healthURL == "" {
			healthURL = localHealthURL()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return checkHealth(cmd.OutOrStdout(), healthURL, healthTimeout)
	},
}

func init() {
	healthcheckCmd.Flags().StringVar(&healthURL, "url", "", "liveness URL (default http://127.0.0.1:$APP_PORT/health)")
	healthcheckCmd.Flags().DurationVar(&healthTimeout, "timeout", 3*time.Second, "request timeout")
}

// localHealthURL points at the instance serving on APP_PORT on this host.
func localHealthURL() string {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	return "http://127.0.0.1:" + port + "/health"
}

func checkHealth(out io.Writer, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("healthcheck: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck: %s returned %d: %s", url, resp.StatusCode, body)
	}
	fmt.Fprintf(out, "%s\n", body)
	return nil
}
