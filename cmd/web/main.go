package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"runetable/internal/catalog"
	"runetable/internal/config"
	"runetable/internal/deck"
	"runetable/internal/docstore"
	"runetable/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	log := logrus.NewEntry(logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.WithError(err).Fatal("load catalog")
	}
	decks, err := deck.NewStore(cfg.SQLitePath)
	if err != nil {
		log.WithError(err).Fatal("open deck store")
	}
	defer decks.Close()

	var store docstore.Store
	if cfg.RedisURL != "" {
		store, err = docstore.DialRedis(context.Background(), cfg.RedisURL, log)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		log.WithField("url", cfg.RedisURL).Info("using redis document store")
	} else {
		store = docstore.NewMemory()
		log.Info("using in-memory document store")
	}

	srv := web.NewServer(cat, decks, store, log, cfg.RNGSeed)
	log.WithField("addr", cfg.Addr).Info("runetable web listening")
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.WithError(err).Fatal("serve")
	}
}
