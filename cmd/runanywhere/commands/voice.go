package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RunanywhereAI/sdks-sub010/pkg/voice"
)

// NewVoiceCommand builds the "voice" command group. Full interactive
// microphone capture is a host-application concern (this CLI has no audio
// device access); the group has a single "describe" subcommand that prints
// the configured stage frameworks and VAD thresholds. Session lifecycle
// operations are not exposed on the command line.
func NewVoiceCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Inspect and smoke-test the voice pipeline configuration",
	}
	cmd.AddCommand(newVoiceDescribeCommand(app))
	return cmd
}

func newVoiceDescribeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the configured voice pipeline stages and thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			vadCfg := voice.DefaultVADConfig()
			fmt.Printf("stt: %s\n", app.Config.STT.Framework)
			fmt.Printf("llm: %s\n", app.Config.LLM.Framework)
			fmt.Printf("tts: %s\n", app.Config.TTS.Framework)
			fmt.Printf("vad: frame=%s speech_threshold=%.3f content_threshold=%.3f min_speech=%s\n",
				vadCfg.FrameDuration, vadCfg.SpeechThreshold, vadCfg.ContentThreshold, vadCfg.MinSpeechDuration)
			return nil
		},
	}
}
