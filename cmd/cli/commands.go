package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(othersCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the full ranked leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the podium entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard/top")
	},
}

var othersCmd = &cobra.Command{
	Use:   "others",
	Short: "Print the entries below the podium",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard/others")
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Trigger a leaderboard refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/refresh", "")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print battles grouped per match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/history")
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [participant-id]",
	Short: "Start a session for the given participant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"loggedIn":true,"participantId":%q}`, args[0])
		return performPostRequest("/session", body)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/session", `{"loggedIn":false}`)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Get(target)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	var resp *http.Response
	var err error
	if body != "" {
		resp, err = http.Post(target, "application/json", strings.NewReader(body))
	} else {
		resp, err = http.PostForm(target, url.Values{})
	}
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
