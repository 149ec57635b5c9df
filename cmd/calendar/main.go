package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lomoval/otus-golang/calendar/internal/app"
	"github.com/lomoval/otus-golang/calendar/internal/bridge"
	"github.com/lomoval/otus-golang/calendar/internal/logger"
	"github.com/lomoval/otus-golang/calendar/internal/rabbit"
	internalgrpc "github.com/lomoval/otus-golang/calendar/internal/server/grpc"
	internalhttp "github.com/lomoval/otus-golang/calendar/internal/server/http"
	"github.com/lomoval/otus-golang/calendar/internal/storagebuilder"
	log "github.com/sirupsen/logrus"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	if flag.Arg(0) == "version" {
		printVersion()
		return
	}

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	err = logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	stor, err := storagebuilder.New(config.Storage)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}

	var bridges []bridge.Bridge
	if config.Rabbit.Enabled {
		r := rabbit.New(config.Rabbit)
		if err := r.Connect(); err != nil {
			log.Errorf("failed to start %v", err)
			_ = stor.Close(context.Background())
			return
		}
		defer r.Close()
		bridges = append(bridges, rabbit.NewBridge(r))
	}

	calendar := app.New(stor, bridges...)
	httpServer := internalhttp.NewServer(config.HTTPServer, calendar)
	grpcServer := internalgrpc.NewServer(config.GrpcServer, calendar)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, time.Second*15)
	err = calendar.Load(loadCtx)
	loadCancel()
	if err != nil {
		log.Errorf("failed to start %v", err)
		closeStorage(calendar)
		return
	}

	go func() {
		if err := grpcServer.Start(ctx); err != nil {
			log.Error("failed to start grpc server: " + err.Error())
			cancel()
		}
	}()

	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := httpServer.Stop(ctx); err != nil {
			log.Error("failed to stop http server: " + err.Error())
		}
		if err := grpcServer.Stop(ctx); err != nil {
			log.Error("failed to stop grpc server: " + err.Error())
		}
	}()

	log.Info("calendar is running...")

	if err := httpServer.Start(ctx); err != nil {
		log.Error("failed to start http server: " + err.Error())
		cancel()
		closeStorage(calendar)
		os.Exit(1) //nolint:gocritic
	}
	closeStorage(calendar)
}

func closeStorage(calendar *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()
	if err := calendar.Storage.Close(ctx); err != nil {
		log.Errorf("failed to close storage: %v", err)
	}
}
