package main

import (
	"fmt"
	"os"

	"github.com/gradekit/gradekit/internal/config"
	"github.com/gradekit/gradekit/internal/wizard"
	"github.com/spf13/cobra"
)

func newSetupCommand() *cobra.Command {
	var envPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactively configure provider credentials",
		Long: `Walk through configuring API keys for the hosted providers and a
default grading model, then write them to a .env file.

Keys already present in the environment are offered as defaults. The
file is written owner-readable only; keep it out of version control.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := config.Load()

			setup, err := wizard.RunSetupWizard(os.Stdin, os.Stdout, wizard.Setup{
				OpenAIKey:    creds.OpenAIKey,
				AnthropicKey: creds.AnthropicKey,
				GroqKey:      creds.GroqKey,
				DefaultModel: creds.DefaultModel,
			})
			if err != nil {
				return err
			}

			if err := wizard.WriteEnvFile(envPath, setup); err != nil {
				return err
			}

			fmt.Println()
			fmt.Printf("Wrote %s\n", envPath)
			printKeyLine("OpenAI", setup.OpenAIKey)
			printKeyLine("Anthropic", setup.AnthropicKey)
			printKeyLine("Groq", setup.GroqKey)
			if setup.DefaultModel != "" {
				fmt.Printf("  Default model: %s\n", setup.DefaultModel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envPath, "env-file", ".env", "Path to write the credentials file")

	return cmd
}

// printKeyLine shows whether a key was set, masked so the value never
// reaches the terminal.
func printKeyLine(name, key string) {
	if key == "" {
		fmt.Printf("  %s: (skipped)\n", name)
		return
	}
	fmt.Printf("  %s: %s\n", name, wizard.MaskKey(key))
}
