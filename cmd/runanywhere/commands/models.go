package commands

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
)

// NewModelsCommand builds the "models" command group: list-available,
// list-downloaded, add-from-url, get, delete, validate.
func NewModelsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage model descriptors and downloaded artifacts",
	}
	cmd.AddCommand(
		newModelsListAvailableCommand(app),
		newModelsListDownloadedCommand(app),
		newModelsAddCommand(app),
		newModelsGetCommand(app),
		newModelsDeleteCommand(app),
		newModelsValidateCommand(app),
	)
	return cmd
}

func newModelsListAvailableCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-available",
		Short: "List every discovered model, installed or not",
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors, err := app.Discovery.Discover(cmd.Context())
			if err != nil {
				return err
			}
			renderModelsTable(descriptors)
			return nil
		},
	}
}

func newModelsListDownloadedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list-downloaded",
		Short: "List installed models",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := app.ModelRegistry.List()
			installed := make([]models.Descriptor, 0, len(all))
			for _, d := range all {
				if d.IsInstalled() {
					installed = append(installed, d)
				}
			}
			renderModelsTable(installed)
			return nil
		},
	}
}

func newModelsAddCommand(app *App) *cobra.Command {
	var framework, format, id string
	cmd := &cobra.Command{
		Use:   "add-from-url <url>",
		Short: "Register a model descriptor pointing at a remote URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			descriptor := models.Descriptor{
				ID:                 id,
				RemoteURL:          args[0],
				Format:             models.Format(format),
				CompatibleBackends: []models.FrameworkTag{models.FrameworkTag(framework)},
				Source:             models.SourceRemote,
			}
			return app.ModelRegistry.Register(descriptor)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "model id to register under")
	cmd.Flags().StringVar(&framework, "framework", "", "compatible backend framework tag")
	cmd.Flags().StringVar(&format, "format", "", "model artifact format")
	return cmd
}

func newModelsGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single model descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.ModelRegistry.Get(args[0])
			if err != nil {
				return err
			}
			renderModelsTable([]models.Descriptor{d})
			return nil
		},
	}
}

func newModelsDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an installed model and unregister it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.ModelRegistry.Get(args[0])
			if err != nil {
				return err
			}
			app.Engine.Cancel(d.ID)
			if d.IsInstalled() {
				fw := d.PreferredBackend
				if fw == "" && len(d.CompatibleBackends) > 0 {
					fw = d.CompatibleBackends[0]
				}
				if err := app.Storage.Delete(fw, d.ID); err != nil {
					return err
				}
			}
			return app.ModelRegistry.Unregister(d.ID)
		},
	}
}

func newModelsValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>",
		Short: "Validate a model descriptor's invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.ModelRegistry.Get(args[0])
			if err != nil {
				return err
			}
			if err := d.Validate(nil); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "ok")
			return nil
		},
	}
}

func renderModelsTable(descriptors []models.Descriptor) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("ID", "FORMAT", "FRAMEWORK", "SIZE", "INSTALLED")
	for _, d := range descriptors {
		table.Append([]string{
			d.ID,
			string(d.Format),
			string(d.PreferredBackend),
			units.HumanSize(float64(d.EstimatedSizeBytes)),
			fmt.Sprintf("%v", d.IsInstalled()),
		})
	}
	table.Render()
}
