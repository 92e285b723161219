package commands

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/RunanywhereAI/sdks-sub010/pkg/download"
)

// NewDownloadCommand builds the "download" command group: start a
// download, cancel one, list active transfers, and pause/resume all.
func NewDownloadCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download model artifacts",
	}
	cmd.AddCommand(
		newDownloadStartCommand(app),
		newDownloadCancelCommand(app),
		newDownloadPauseAllCommand(app),
		newDownloadResumeAllCommand(app),
		newDownloadStatisticsCommand(app),
	)
	return cmd
}

func newDownloadStartCommand(app *App) *cobra.Command {
	var priority string
	var wait bool
	cmd := &cobra.Command{
		Use:   "start <model-id>",
		Short: "Enqueue a download for a registered model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID := args[0]
			d, err := app.ModelRegistry.Get(modelID)
			if err != nil {
				return err
			}
			framework := d.PreferredBackend
			if framework == "" && len(d.CompatibleBackends) > 0 {
				framework = d.CompatibleBackends[0]
			}
			finalPath, err := app.Storage.PathFor(framework, d.ID, d.Format)
			if err != nil {
				return err
			}
			tempPath, err := app.Storage.TempPathFor(framework, d.ID, d.Format)
			if err != nil {
				return err
			}

			bar := progressbar.DefaultBytes(d.EstimatedSizeBytes, fmt.Sprintf("downloading %s", d.ID))

			task := download.Task{
				ID:            uuid.NewString(),
				ModelID:       d.ID,
				URL:           d.RemoteURL,
				DestPath:      finalPath,
				TempPath:      tempPath,
				Checksum:      d.Checksum,
				Priority:      parsePriority(priority),
				Framework:     framework,
				Format:        d.Format,
				EstimatedSize: d.EstimatedSizeBytes,
			}
			app.Engine.Enqueue(task)

			if wait {
				app.Engine.Wait()
				bar.Finish()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "normal", "queue priority: low, normal, high, critical")
	cmd.Flags().BoolVar(&wait, "wait", false, "block until every queued download finishes")
	return cmd
}

func parsePriority(s string) download.Priority {
	switch s {
	case "low":
		return download.PriorityLow
	case "high":
		return download.PriorityHigh
	case "critical":
		return download.PriorityCritical
	default:
		return download.PriorityNormal
	}
}

func newDownloadCancelCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a queued or active download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Engine.Cancel(args[0]) {
				return fmt.Errorf("no such task: %s", args[0])
			}
			return nil
		},
	}
}

func newDownloadPauseAllCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause-all",
		Short: "Pause every active download",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Engine.PauseAll()
			return nil
		},
	}
}

func newDownloadResumeAllCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume-all",
		Short: "Resume every paused download",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Engine.ResumeAll()
			return nil
		},
	}
}

func newDownloadStatisticsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "statistics",
		Short: "Show aggregated download progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.Progress.Snapshot()
			fmt.Printf("active: %d  received: %s / %s  (%.1f%%)  worst-state: %s\n",
				snap.ActiveSources,
				units.HumanSize(float64(snap.TotalBytesReceived)),
				units.HumanSize(float64(snap.TotalBytes)),
				snap.Percentage,
				snap.WorstState,
			)
			return nil
		},
	}
}
