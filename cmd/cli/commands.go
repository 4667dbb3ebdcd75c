package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	teamID   int64
	playerID int64
	page     int
)

func init() {
	rankingsCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to rank")
	badgesCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to fetch badges for")
	pairsCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to fetch pair stats for")
	playersCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to list players for")
	matchesCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to list matches for")
	matchesCmd.Flags().IntVar(&page, "page", 1, "Page of the match log")
	profileCmd.Flags().Int64Var(&playerID, "player", 0, "Player id to fetch the profile for")
	recordCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to record the match for")
	deleteCmd.Flags().Int64Var(&teamID, "team", 0, "Team id owning the match")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	summaryCmd.Flags().Int64Var(&teamID, "team", 0, "Team id to summarize")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(cleanupTokensCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a team's activity summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/stats/summary?teamID=%d", teamID))
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the team leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/stats/rankings?teamID=%d", teamID))
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show the team badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/stats/badges?teamID=%d", teamID))
	},
}

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Show pair synergy rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/stats/pairs?teamID=%d", teamID))
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the active players of a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/players?teamID=%d", teamID))
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the match log of a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/matches?teamID=%d&page=%d", teamID, page))
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show a player's statistics profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/stats/player?playerID=%d", playerID))
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <gk1> <atk1> <gk2> <atk2> <score1> <score2>",
	Short: "Record a match result",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ids [6]int64
		for i, arg := range args {
			if _, err := fmt.Sscanf(arg, "%d", &ids[i]); err != nil {
				return fmt.Errorf("argument %d must be a number: %s", i+1, arg)
			}
		}
		return performPostRequest("/matches/record", map[string]any{
			"team_id":          teamID,
			"team1_goalkeeper": ids[0],
			"team1_attacker":   ids[1],
			"team2_goalkeeper": ids[2],
			"team2_attacker":   ids[3],
			"team1_score":      ids[4],
			"team2_score":      ids[5],
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <matchID>",
	Short: "Delete a recent match and restore ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var matchID int64
		if _, err := fmt.Sscanf(args[0], "%d", &matchID); err != nil {
			return fmt.Errorf("matchID must be a number: %s", args[0])
		}
		return performPostRequest("/matches/delete", map[string]any{
			"match_id": matchID,
			"team_id":  teamID,
		})
	},
}

var cleanupTokensCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Delete expired share tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/share/cleanup", nil)
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
