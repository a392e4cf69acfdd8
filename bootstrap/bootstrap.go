package bootstrap

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/diffbelt/api"
	"github.com/fulldump/diffbelt/configuration"
	"github.com/fulldump/diffbelt/database"
	"github.com/fulldump/diffbelt/dump"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration, logger *slog.Logger) (start, stop func(), err error) {

	config := &database.Config{
		AutoCommitDelay: c.AutoCommitDelay,
		MaxItemsInPack:  c.MaxItemsInPack,
		Logger:          logger,
	}
	if c.Dir != "" {
		config.Load = func(db *database.Database) error {
			return dump.Load(db, c.Dir)
		}
	}
	db := database.NewDatabase(config)

	b := api.Build(db, VERSION)
	b.WithInterceptors(api.AccessLog(logger))
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.PrettyErrorInterceptor,
		api.RecoverFromPanic,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("listening", "addr", c.HttpAddr)

	dumpCtx, stopDumps := context.WithCancel(context.Background())
	dumpDone := make(chan struct{})

	stopOnce := sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			// Generation streams only end when their collection closes
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.Shutdown(shutdownCtx)
			cancel()
			stopDumps()
			<-dumpDone
			db.Stop()
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Info("signal received", "signal", sig.String())
		stop()
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				logger.Error("database", "error", err)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(dumpDone)
			if c.Dir == "" {
				logger.Warn("dumps disabled, data will be lost on exit")
				<-dumpCtx.Done()
				return
			}
			select {
			case <-db.Operating():
			case <-dumpCtx.Done():
				return // never loaded, keep the previous dump
			}
			dump.Loop(dumpCtx, db, c.Dir, c.DumpInterval, logger)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				logger.Error("http server", "error", err)
			}
		}()

		wg.Wait()
	}

	return start, stop, nil
}
