package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/mkoval/remexec/pkg/build"
	"github.com/mkoval/remexec/pkg/config"
	"github.com/mkoval/remexec/pkg/logger"
	"github.com/mkoval/remexec/pkg/report"
)

var CLI struct {
	Config    string `short:"c" help:"Settings file path" default:"remexec.json"`
	LogLevel  string `help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `help:"Log format (console, json)" default:"console"`

	Build struct {
		Dir           string   `short:"d" help:"Local working directory" default:"."`
		Server        string   `short:"s" help:"Remote server name; omit to run locally"`
		Cmd           []string `short:"x" required:"" help:"Build command (repeatable, commands run as independent builds)"`
		Exclude       []string `short:"e" help:"Glob patterns excluded from synchronization"`
		RsyncRoot     string   `help:"Override the server's root_directory"`
		MaxConcurrent int      `help:"Concurrent builds when several commands are given" default:"3"`
	} `cmd:"" help:"Mirror the project to the remote server and run the build command there"`

	Servers struct {
		Watch bool `short:"w" help:"Keep running and reload the registry when the settings file changes"`
	} `cmd:"" help:"List configured server profiles"`

	Validate struct{} `cmd:"" help:"Validate the settings file against the schema"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logger.Init(CLI.LogLevel, CLI.LogFormat)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "build":
		runBuild(ctx, log)
	case "servers":
		runServers(ctx, log)
	case "validate":
		if err := config.Validate(CLI.Config); err != nil {
			log.Fatal().Err(err).Msg("settings file is invalid")
		}
		log.Info().Str("settings_file", CLI.Config).Msg("settings file is valid")
	default:
		kctx.Fatalf("unknown command")
	}
}

func runBuild(ctx context.Context, log *zerolog.Logger) {
	store := loadStore(log)

	dir, err := filepath.Abs(CLI.Build.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve working directory")
	}

	reqs := make([]build.Request, 0, len(CLI.Build.Cmd))
	for _, cmd := range CLI.Build.Cmd {
		reqs = append(reqs, build.Request{
			WorkingDirectory: dir,
			RemoteServer:     CLI.Build.Server,
			RemoteCmd:        cmd,
			RemoteRsyncRoot:  CLI.Build.RsyncRoot,
			Excludes:         CLI.Build.Exclude,
		})
	}

	newReporter := func(build.Request) report.Reporter {
		return report.NewConsole(os.Stdout, *log)
	}

	outcomes, err := build.RunAll(ctx, store, reqs, newReporter, CLI.Build.MaxConcurrent, *log)
	if err != nil {
		log.Fatal().Err(err).Msg("build execution aborted")
	}

	// Exit with the first failing build's code so scripted callers see the
	// same contract as a local command.
	for _, outcome := range outcomes {
		if outcome.Status == report.StatusSuccess {
			continue
		}
		if outcome.ExitCode > 0 {
			os.Exit(outcome.ExitCode)
		}
		os.Exit(1)
	}
}

func runServers(ctx context.Context, log *zerolog.Logger) {
	store := loadStore(log)

	printServers := func(registry *config.Registry) {
		for _, name := range registry.Names() {
			profile, _ := registry.Lookup(name)
			log.Info().
				Str("name", profile.Name).
				Str("host", profile.Host).
				Str("root", profile.RootDirectory).
				Msg("server")
		}
	}
	printServers(store.Snapshot())

	if !CLI.Servers.Watch {
		return
	}

	watcher, err := config.NewWatcher(CLI.Config, store, *log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create settings watcher")
	}
	if err := watcher.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start settings watcher")
	}
	defer watcher.Stop()

	<-ctx.Done()
}

func loadStore(log *zerolog.Logger) *config.Store {
	store, err := config.LoadStore(CLI.Config)
	if err != nil {
		log.Fatal().Err(err).Str("settings_file", CLI.Config).Msg("failed to load settings")
	}
	return store
}
