package main

import (
	"flag"
	"fmt"
	"os"
)

type Config struct {
	Host          string
	Port          int
	ConfigFile    string
	LogLevel      string
	LogFormat     string
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Version       bool
}

func ParseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.Host, "host", "0.0.0.0", "Server host")
	flag.IntVar(&config.Port, "port", 8080, "Server port")
	flag.StringVar(&config.ConfigFile, "config", "", "Path to configuration file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&config.LogFormat, "log-format", "json", "Log format (json, text)")
	flag.StringVar(&config.StoreBackend, "store", "memory", "Report store backend (memory, redis)")
	flag.StringVar(&config.RedisAddr, "redis-addr", "localhost:6379", "Redis address")
	flag.StringVar(&config.RedisPassword, "redis-password", "", "Redis password")
	flag.IntVar(&config.RedisDB, "redis-db", 0, "Redis database number")
	flag.BoolVar(&config.Version, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nTabular Data Quality Analysis Server\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if config.Version {
		info := GetBuildInfo()
		fmt.Printf("Version: %s\n", info.Version)
		fmt.Printf("Git Commit: %s\n", info.GitCommit)
		fmt.Printf("Build Date: %s\n", info.BuildDate)
		fmt.Printf("Go Version: %s\n", info.GoVersion)
		fmt.Printf("Platform: %s\n", info.Platform)
		os.Exit(0)
	}

	return config
}
