// Package commands wires the CLI's subcommands to the runtime's packages.
// Each NewXCommand constructor returns a *cobra.Command, grounded on the
// teacher's cmd/cli/commands layout (one file per command group).
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RunanywhereAI/sdks-sub010/pkg/config"
	"github.com/RunanywhereAI/sdks-sub010/pkg/download"
	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
	"github.com/RunanywhereAI/sdks-sub010/pkg/inference/backends"
	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
	"github.com/RunanywhereAI/sdks-sub010/pkg/models"
	"github.com/RunanywhereAI/sdks-sub010/pkg/progress"
	"github.com/RunanywhereAI/sdks-sub010/pkg/storage"
)

// App bundles every subsystem the CLI commands operate on.
type App struct {
	Config          config.Config
	Log             logging.Logger
	ModelRegistry   *models.Registry
	Discovery       *models.Discovery
	Storage         *storage.Manager
	Engine          *download.Engine
	BackendRegistry *inference.Registry
	InferenceSvc    *inference.Service
	Progress        *progress.Aggregator
}

// NewApp constructs the default App wiring used by the CLI: a storage root
// under the user's home directory, every stub backend adapter registered,
// and a progress aggregator subscribed to the download engine.
func NewApp() (*App, error) {
	cfg := config.Default()
	log := logging.New("runanywhere", logging.ParseLevel(cfg.LogLevel), os.Stderr)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	root := cfg.Download.StorageRoot
	if root == "" {
		root = filepath.Join(home, ".runanywhere", "models")
	}

	storageMgr, err := storage.New(root, log)
	if err != nil {
		return nil, err
	}

	modelRegistry := models.NewRegistry(log)
	discovery := models.NewDiscovery([]string{root}, nil, 0, log)

	aggregator := progress.New()
	engine := download.NewEngine(storageMgr, log,
		download.WithMaxConcurrent(cfg.Download.MaxConcurrent),
		download.WithProgressFunc(aggregator.Report),
	)

	backendRegistry := inference.NewRegistry()
	backendRegistry.Register(models.FrameworkLlamaCpp, backends.NewLlamaCpp)
	backendRegistry.Register(models.FrameworkCoreML, backends.NewCoreML)
	backendRegistry.Register(models.FrameworkTFLite, backends.NewTFLite)
	backendRegistry.Register(models.FrameworkONNX, backends.NewONNX)
	backendRegistry.Register(models.FrameworkExecuTorch, backends.NewExecuTorch)
	backendRegistry.Register(models.FrameworkMLX, backends.NewMLX)
	backendRegistry.Register(models.FrameworkMediaPipe, backends.NewMediaPipe)
	backendRegistry.Register(models.FrameworkPicoLLM, backends.NewPicoLLM)
	backendRegistry.Register(models.FrameworkFoundation, backends.NewFoundationModels)
	backendRegistry.Register(models.FrameworkWhisperKit, backends.NewWhisperKit)
	backendRegistry.Register(models.FrameworkSystemTTS, backends.NewSystemTTS)

	inferenceSvc := inference.NewService(modelRegistry, backendRegistry, nil, log)

	return &App{
		Config:          cfg,
		Log:             log,
		ModelRegistry:   modelRegistry,
		Discovery:       discovery,
		Storage:         storageMgr,
		Engine:          engine,
		BackendRegistry: backendRegistry,
		InferenceSvc:    inferenceSvc,
		Progress:        aggregator,
	}, nil
}
