package main

import (
	"context"
	"errors"
	"flag"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-term/internal/config"
	"github.com/vancomm/minesweeper-term/internal/database"
	"github.com/vancomm/minesweeper-term/internal/logging"
	"github.com/vancomm/minesweeper-term/internal/mines"
	"github.com/vancomm/minesweeper-term/internal/repository"
	"github.com/vancomm/minesweeper-term/internal/terminal"
)

var (
	log = logrus.New()

	configPath string
	width      int
	height     int
	mineCount  int
	seed       uint64
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.IntVar(&width, "width", 0, "board width")
	flag.IntVar(&height, "height", 0, "board height")
	flag.IntVar(&mineCount, "mines", 0, "number of mines")
	flag.Uint64Var(&seed, "seed", 0, "seed for a reproducible game")
}

func createRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// applyFlags lets flags given on the command line override the config file.
func applyFlags(c *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			c.Width = width
		case "height":
			c.Height = height
		case "mines":
			c.MineCount = mineCount
		case "seed":
			c.Seed = &seed
		}
	})
}

func setupLogging(c *config.Config) {
	if err := logging.Setup(log, c); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}
	mines.Log = log
}

// setupStore connects to Postgres when one is configured. A nil store
// disables saved games.
func setupStore(ctx context.Context, c *config.Config) (*pgxpool.Pool, terminal.Store) {
	pool, migrator, err := database.ConnectAndMigrate(ctx, c, database.Migrations)
	if errors.Is(err, config.ErrNoDatabase) {
		log.Info("no database configured, saved games are disabled")
		return nil, nil
	}
	if err != nil {
		log.Fatal("unable to set up database: ", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Debug("database migrated")
	}
	migrator.Close()
	return pool, repository.New(pool)
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	c, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("unable to load config %s: %s", configPath, err.Error())
	}
	applyFlags(c)

	setupLogging(c)

	log.Info("starting up, mode = ", c.Mode)
	log.WithFields(c.Fields()).Debug("config")

	rnd := createRand(c.Seed)

	var board *mines.Board
	if params, ok := c.GameParams(); ok {
		if board, err = mines.New(params, rnd); err != nil {
			log.Fatal("unable to create board: ", err)
		}
	}

	pool, store := setupStore(mainCtx, c)
	if pool != nil {
		defer pool.Close()
	}

	session := terminal.NewSession(board, os.Stdin, os.Stdout, terminal.Options{
		Log:   log,
		Rand:  rnd,
		Store: store,
	})

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return session.Run(gCtx)
	})

	err = g.Wait()
	switch {
	case errors.Is(err, terminal.ErrQuit),
		errors.Is(err, io.EOF),
		errors.Is(err, context.Canceled):
		log.Info("exit reason: ", err)
	default:
		log.Error("exit reason: ", err)
		os.Exit(1)
	}
}
