package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/vs-activity/mode"
	"github.com/khaledhikmat/vs-activity/pipeline"
	"github.com/khaledhikmat/vs-activity/service/classifier"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/khaledhikmat/vs-activity/service/data"
	"github.com/khaledhikmat/vs-activity/service/lgr"
	"github.com/khaledhikmat/vs-activity/service/storage"
	"github.com/khaledhikmat/vs-activity/service/video"
)

const (
	// WARNING: this has to be bigger that the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"server": mode.Server,
	"cli":    mode.CLI,
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)
	defer canxFn()

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		if err := godotenv.Load(); err != nil {
			lgr.Logger.Warn("no .env file loaded", slog.Any("error", err))
		}
	}

	modeType := "server"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
		args = args[1:]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		return 2
	}

	// Config service
	cfgSvc, err := config.NewEnv(os.Getenv("CONFIG_FILE"))
	if err != nil {
		lgr.Logger.Error("error loading configuration", slog.Any("error", lgr.Traced(err)))
		return 1
	}

	closer := lgr.Setup(cfgSvc.GetLogsFolder(), slog.LevelInfo)
	defer closer.Close()

	if cfgSvc.GetSettings().Backend != config.FakeBackend && cfgSvc.GetSettings().AuthToken == "" {
		lgr.Logger.Warn("AUTH_TOKEN is not set, classifier requests will be rejected")
	}

	// Classifier service
	classifierSvc, err := classifier.New(cfgSvc)
	if err != nil {
		lgr.Logger.Error("error creating classifier", slog.Any("error", lgr.Traced(err)))
		return 1
	}

	// Data service. One-shot cli runs still keep their stats alongside the server's
	dataSvc := data.NewFilesDB(cfgSvc)

	svcs := pipeline.ServicesFactory{
		CfgSvc:        cfgSvc,
		DataSvc:       dataSvc,
		StorageSvc:    storage.NewLocal(cfgSvc),
		VideoSvc:      video.NewGoCV(),
		ClassifierSvc: classifierSvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error, 1)

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, args)
	}()

	exitCode := 0

	// Wait for cancellation or mode proc
	select {
	case <-canxCtx.Done():
		lgr.Logger.Info(
			"vs-activity context cancelled",
		)

	case err := <-modeProcResult:
		if err != nil {
			exitCode = 1
			lgr.Logger.Info(
				"vs-activity mode processor exited",
				slog.Any("error", xerrors.New(err.Error())),
			)
		}
		return exitCode
	}

	// Wait in a non-blocking way for `waitOnShutdown` for the mode processor to exit
	// This is needed because the server drains in-flight analyses as it exits
	lgr.Logger.Info(
		"vs-activity is waiting for the mode processor to exit",
	)

	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	select {
	case <-timer.C:
		lgr.Logger.Info(
			"vs-activity shutdown waiting period expired. Exiting now",
			slog.Duration("period", waitOnShutdown),
		)
		return 1

	case err := <-modeProcResult:
		if err != nil {
			lgr.Logger.Info(
				"vs-activity mode processor exited",
				slog.Any("error", xerrors.New(err.Error())),
			)
			return 1
		}
	}

	return exitCode
}
