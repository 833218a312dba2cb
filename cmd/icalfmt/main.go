// Command icalfmt reformats, checks and queries iCalendar files.
//
// Usage:
//
//	icalfmt [-config path] [-log-level level] <command> [flags] [files]
//
// Commands:
//
//	fmt       rewrite files in canonical form (stdout, or in place with -w)
//	check     report diagnostics as file:line:col-line:col: severity: message
//	todos     list todos overlapping a range given as anchors (today, 7d, ...)
//	new-todo  print a calendar holding one new todo
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aimcal/ical/internal/config"
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "icalfmt.yaml"
	}
	return filepath.Join(dir, "icalfmt", "config.yaml")
}

func main() {
	fs := flag.NewFlagSet("icalfmt", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "path of the YAML config file")
	logLevel := fs.String("log-level", "", "logrus level, overrides the config")
	colorMode := fs.String("color", "", "auto, always or never, overrides the config")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: icalfmt [flags] fmt|check|todos|new-todo [args]\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *colorMode != "" {
		cfg.Color = *colorMode
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, using warning", cfg.LogLevel)
		level = logrus.WarnLevel
	}
	log.SetLevel(level)

	a, err := newApp(cfg, log, time.Now)
	if err != nil {
		log.WithError(err).Fatal("could not start")
	}
	a.stdin, a.stdout, a.stderr = os.Stdin, os.Stdout, os.Stderr

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	code, err := a.run(fs.Arg(0), fs.Args()[1:])
	if err != nil {
		log.WithError(err).Error(fs.Arg(0) + " failed")
	}
	os.Exit(code)
}
