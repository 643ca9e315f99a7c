package main

import (
	"fmt"

	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/providers/llm"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:           "models",
	Short:         "List completion models available to the configured API key",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		completionCfg := config.NewCompletionConfig(ctx)

		provider := llm.NewXAI(completionCfg.APIKey, completionCfg.Model)
		models, err := provider.Models(ctx)
		if err != nil {
			return err
		}

		for _, m := range models {
			marker := " "
			if m.ID == completionCfg.Model {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, m.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
