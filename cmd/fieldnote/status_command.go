package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fieldnote/internal/api"
	"fieldnote/internal/preflight"
)

const statusRequestTimeout = 3 * time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and environment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, passFail(result.Passed), result.Detail})
			}
			table := renderTable(
				[]column{col("Check"), col("Status"), col("Detail")},
				rows,
			)
			fmt.Fprintln(out, table)

			baseURL, err := ctx.apiBaseURL()
			if err != nil {
				return err
			}
			status, err := fetchServerStatus(cmd, baseURL)
			if err != nil {
				fmt.Fprintf(out, "Daemon: not reachable at %s (%v)\n", baseURL, err)
				fmt.Fprintln(out, "Start it with: fieldnoted")
				return nil
			}

			fmt.Fprintf(out, "Daemon: running (pid %d, up %s)\n", status.PID, formatUptime(status.UptimeSeconds))
			fmt.Fprintf(out, "Database: %s\n", status.DatabasePath)
			fmt.Fprintf(out, "Uploads:  %s\n", status.UploadsDir)
			device := "unavailable"
			if status.Device.Available {
				device = "available"
			}
			if status.Device.Detail != "" {
				device += " (" + status.Device.Detail + ")"
			}
			fmt.Fprintf(out, "Capture device: %s, monitoring: %s\n", device, yesNo(status.Device.Monitoring))

			if len(status.InterviewCounts) > 0 {
				counts := make([][]string, 0, len(status.InterviewCounts))
				for name, count := range status.InterviewCounts {
					counts = append(counts, []string{name, strconv.Itoa(count)})
				}
				sort.Slice(counts, func(i, j int) bool { return counts[i][0] < counts[j][0] })
				fmt.Fprintln(out, renderTable(
					[]column{col("Interview Status"), numeric("Count")},
					counts,
				))
			}
			return nil
		},
	}
}

func fetchServerStatus(cmd *cobra.Command, baseURL string) (*api.ServerStatus, error) {
	client := &http.Client{Timeout: statusRequestTimeout}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, baseURL+"/api/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var status api.ServerStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	return &status, nil
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}

func formatUptime(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}
