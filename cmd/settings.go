package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helmcode/boot-ai/pkg/config"
)

var apiKeyFlag string

func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Configure the OpenRouter API key",
		Long: `Store the OpenRouter API key in the config file. Get a key from
https://openrouter.ai/keys. The key can also be supplied via the
OPENROUTER_API_KEY environment variable instead.`,
		Args: cobra.NoArgs,
		RunE: runSettings,
	}

	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "OpenRouter API key to store")

	return cmd
}

func runSettings(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(apiKeyFlag)

	if key == "" {
		if current := config.APIKey(); current != "" {
			fmt.Printf("Current key: %s\n", maskKey(current))
		}
		fmt.Print("Enter OpenRouter API key: ")

		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read API key: %w", err)
		}
		key = strings.TrimSpace(line)
	}

	if key == "" {
		return fmt.Errorf("no API key provided")
	}

	if err := config.Persist(key); err != nil {
		return fmt.Errorf("save API key: %w", err)
	}

	printSuccess("API key saved")
	return nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 8) + key[len(key)-4:]
}
