package cmd

import (
	"fmt"
	"time"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/server"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Sign an HS256 token with GOPANEL_TOKEN_KEY.

Examples:
  gopanel token --subject analyst
  gopanel token --subject ci --ttl 24h`,
	Run: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "gopanel", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "Token lifetime (0 never expires)")
}

func runToken(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		return
	}
	if len(cfg.TokenKey) == 0 {
		fmt.Printf("Error: %s is not set\n", config.EnvTokenKey)
		return
	}
	token, err := server.IssueToken(cfg.TokenKey, tokenSubject, tokenTTL)
	if err != nil {
		fmt.Printf("Error signing token: %v\n", err)
		return
	}
	fmt.Println(token)
}
