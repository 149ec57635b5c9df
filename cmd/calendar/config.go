package main

import (
	"fmt"
	"strings"

	"github.com/lomoval/otus-golang/calendar/internal/logger"
	"github.com/lomoval/otus-golang/calendar/internal/rabbit"
	internalgrpc "github.com/lomoval/otus-golang/calendar/internal/server/grpc"
	internalhttp "github.com/lomoval/otus-golang/calendar/internal/server/http"
	"github.com/lomoval/otus-golang/calendar/internal/storagebuilder"
	"github.com/spf13/viper"
)

const envConfigPrefix = "$env:"

type Config struct {
	HTTPServer internalhttp.Config
	GrpcServer internalgrpc.Config
	Logger     logger.Config
	Storage    storagebuilder.Config
	Rabbit     rabbit.Config
}

func NewConfig(configFile string) (Config, error) {
	config := Config{}
	v := viper.New()
	v.SetConfigFile(configFile)

	v.SetDefault("httpServer.host", "127.0.0.1")
	v.SetDefault("httpServer.port", "8005")
	v.SetDefault("grpcServer.host", "127.0.0.1")
	v.SetDefault("grpcServer.port", "8006")
	v.SetDefault("logger.level", "WARN")
	v.SetDefault("logger.format", "text")
	v.SetDefault("storage.storageType", "memory")
	v.SetDefault("storage.latency", "300ms")
	v.SetDefault("storage.idStrategy", "timestamp")
	v.SetDefault("storage.seed", true)
	v.SetDefault("rabbit.enabled", false)
	v.SetDefault("rabbit.host", "127.0.0.1")
	v.SetDefault("rabbit.port", "5672")
	v.SetDefault("rabbit.user", "user")
	v.SetDefault("rabbit.password", "pass")
	v.SetDefault("rabbit.queue", "calendar.view")

	err := v.ReadInConfig()
	if err != nil {
		return config, fmt.Errorf("failed to read config %q: %w", configFile, err)
	}
	keys := v.AllKeys()
	for _, key := range keys {
		env := v.GetString(key)
		if strings.HasPrefix(env, envConfigPrefix) {
			err := v.BindEnv(key, env[len(envConfigPrefix):])
			if err != nil {
				return Config{}, fmt.Errorf("failed to prepare config: %w", err)
			}
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return config, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return config, nil
}
