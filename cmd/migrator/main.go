package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-term/internal/config"
	"github.com/vancomm/minesweeper-term/internal/database"
	"github.com/vancomm/minesweeper-term/internal/logging"
)

func main() {
	log := logrus.New()

	var configPath string
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.StringVar(&configPath, "c", "", "config file path (shorthand)")
	flag.Parse()

	c, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("unable to load config %s: %s", configPath, err.Error())
	}
	// the migrator has nothing else to show, so keep info messages visible
	if c.Log.Level == config.Default().Log.Level {
		c.Log.Level = "info"
	}
	if err := logging.Setup(log, c); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}

	url, err := c.DbURL()
	if err != nil {
		log.WithError(err).Fatal("failed to find database")
	}
	migrator, err := database.Migrate(url, database.Migrations)
	if err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
