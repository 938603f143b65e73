package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"biodaemon/internal/core/clock"
	"biodaemon/internal/core/fatigue"
	"biodaemon/internal/core/model"
	"biodaemon/internal/core/orchestrator"
	"biodaemon/internal/logging"
	"biodaemon/internal/platform"
	"biodaemon/internal/storage"
	"biodaemon/internal/ui/prompt"
	"biodaemon/internal/ui/tray"
	"biodaemon/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	appName             = "BioDaemon"
	commandPollInterval = 500 * time.Millisecond
	eventBuffer         = 16
)

type options struct {
	configPath   string
	debug        bool
	forcePolling bool
	logLevel     string
	logFormat    string
}

func main() {
	if err := newRootCommand(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(opts *options) *cobra.Command {
	command := &cobra.Command{
		Use:          "biodaemon",
		Short:        "Tray pet that gets tired while you work and heals when you lock the screen",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := command.Flags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (default: <user config dir>/BioDaemon/settings.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "accelerated timescale: one second counts as one minute")
	flags.BoolVar(&opts.forcePolling, "force-polling", false, "skip session notifications and poll the lock state")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	return command
}

func run(cmd *cobra.Command, opts *options) error {
	settings, settingsErr := resolveSettings(cmd, opts)
	logger := logging.New(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})
	log := logrus.NewEntry(logger)
	if settingsErr != nil {
		log.WithError(settingsErr).Warn("settings unreadable, using defaults")
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.WithError(err).Warn("another instance is watching this session")
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.biodaemon.app")
	fyneApp.SetIcon(resources.MustStateIcon(fatigue.StateRound))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	timescale := settings.Fatigue.Timescale
	engine := fatigue.New(settings.Fatigue, log)
	defer engine.Close()

	prober := platform.NewLockProber(platform.NewDesktopProbe(), platform.NewIdleProvider(), timescale.IdleThreshold, log)
	monitor := platform.NewMonitor(
		platform.NewHost(log),
		prober,
		clock.Real{},
		platform.MonitorOptions{ForcePolling: settings.ForcePolling},
		log,
	)
	mode := monitor.Start()
	defer monitor.Stop()

	keeper := orchestrator.New(engine, monitor, clock.Real{}, orchestrator.Config{TickPeriod: timescale.TickPeriod}, log)

	resurrect := prompt.NewResurrect(fyneApp, engine.Reset)
	trayManager := tray.New(desktopApp, mode, engine.Snapshot(), tray.Callbacks{
		OnResurrect: func() {
			keeper.Send(orchestrator.CommandShowResurrectPrompt)
		},
		OnExit: func() {
			keeper.Send(orchestrator.CommandExit)
		},
	})

	events := engine.Subscribe(eventBuffer)
	deaths := &tray.DeathWatch{}
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				trayManager.Update(event.Snapshot)
				if notification, ok := tray.Notification(event); ok {
					fyneApp.SendNotification(notification)
				}
				if notification, ok := deaths.Observe(event.Snapshot); ok {
					fyneApp.SendNotification(notification)
				}
			})
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if keeper.Running() {
			keeper.Send(orchestrator.CommandExit)
		}
	}()

	keeper.Start(ctx)
	go pumpCommands(keeper, fyneApp, resurrect, log)

	log.WithFields(logrus.Fields{
		"mode":        mode,
		"tick_period": timescale.TickPeriod,
		"debug":       timescale.Debug,
	}).Info("biodaemon running")
	fyneApp.Run()

	keeper.Stop()
	return nil
}

// pumpCommands is the UI side of the command queue. It waits with a short
// timeout so it notices the running flag even when the queue stays empty.
func pumpCommands(keeper *orchestrator.Orchestrator, fyneApp fyne.App, resurrect *prompt.Resurrect, log *logrus.Entry) {
	for {
		command, ok := keeper.Next(commandPollInterval)
		if !ok {
			if !keeper.Running() {
				fyne.Do(fyneApp.Quit)
				return
			}
			continue
		}

		log.WithField("command", command).Debug("ui command")
		switch command {
		case orchestrator.CommandShowResurrectPrompt:
			fyne.Do(resurrect.Show)
		case orchestrator.CommandExit:
			fyne.Do(fyneApp.Quit)
			return
		}
	}
}

func resolveSettings(cmd *cobra.Command, opts *options) (model.Settings, error) {
	path := opts.configPath
	var err error
	if path == "" {
		path, err = storage.DefaultPath(appName)
	}

	if err == nil {
		_, err = storage.EnsureSettings(path)
	}

	settings := model.DefaultSettings()
	if err == nil {
		settings, err = storage.LoadSettings(path)
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		settings.Fatigue.Timescale = model.NewTimescale(opts.debug)
	}
	if flags.Changed("force-polling") {
		settings.ForcePolling = opts.forcePolling
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		settings.LogFormat = opts.logFormat
	}
	return settings, err
}

