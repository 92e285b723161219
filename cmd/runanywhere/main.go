// Command runanywhere is the CLI front-end over the on-device model
// runtime: format detection, the model registry, the download engine, the
// inference orchestrator, and the voice pipeline. Grounded on the
// teacher's cmd/cli, using the same cobra/pflag/tablewriter/go-units stack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RunanywhereAI/sdks-sub010/cmd/runanywhere/commands"
)

func main() {
	root := &cobra.Command{
		Use:   "runanywhere",
		Short: "Manage and run on-device language models",
	}

	app, err := commands.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "runanywhere:", err)
		os.Exit(1)
	}

	root.AddCommand(
		commands.NewModelsCommand(app),
		commands.NewDownloadCommand(app),
		commands.NewGenerateCommand(app),
		commands.NewVoiceCommand(app),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "runanywhere:", err)
		os.Exit(1)
	}
}
