package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// NewGenerateCommand builds the "generate" command group with "load",
// "unload", "run" (full generation), and "stream" (streamed generation)
// subcommands.
func NewGenerateCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Load a model and run text generation against it",
	}
	cmd.AddCommand(
		newLoadCommand(app),
		newUnloadCommand(app),
		newRunCommand(app),
		newStreamCommand(app),
	)
	return cmd
}

func newLoadCommand(app *App) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "load <model-id>",
		Short: "Load a model into the inference service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.InferenceSvc.Load(cmd.Context(), args[0], models.FrameworkTag(backend))
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "pin a specific backend framework instead of using the selection policy")
	return cmd
}

func newUnloadCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unload",
		Short: "Unload the currently loaded model",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.InferenceSvc.Unload(cmd.Context())
			return nil
		},
	}
}

func newRunCommand(app *App) *cobra.Command {
	var maxTokens int
	var temperature float64
	cmd := &cobra.Command{
		Use:   "run <prompt>",
		Short: "Generate a complete response for a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.InferenceSvc.Generate(cmd.Context(), args[0], inference.GenerationOptions{
				MaxTokens:   maxTokens,
				Temperature: temperature,
			})
			if err != nil {
				return err
			}
			fmt.Println(result.Text)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 256, "maximum tokens to generate")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature (0 = deterministic)")
	return cmd
}

func newStreamCommand(app *App) *cobra.Command {
	var maxTokens int
	var temperature float64
	cmd := &cobra.Command{
		Use:   "stream <prompt>",
		Short: "Generate a response, printing tokens as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.InferenceSvc.StreamGenerate(cmd.Context(), args[0], inference.GenerationOptions{
				MaxTokens:   maxTokens,
				Temperature: temperature,
			}, func(tok inference.Token) {
				fmt.Print(tok.Text)
				if tok.Text != "" {
					fmt.Print(" ")
				}
			})
			fmt.Println()
			return err
		},
	}
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 256, "maximum tokens to generate")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature (0 = deterministic)")
	return cmd
}
