// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/justadios/adios/internal/logging"
)

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
