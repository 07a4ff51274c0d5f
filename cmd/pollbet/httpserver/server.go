// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver starts the http servers of the pollbet command.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/betcoin/pollbet/co"
)

// StartAPIServer serves handler on addr. Requests still running after
// writeTimeout are cut, 0 disables the limit.
func StartAPIServer(addr string, handler http.Handler, writeTimeout time.Duration) (string, func(), error) {
	return serve("API", addr, handler, writeTimeout)
}

func serve(name, addr string, handler http.Handler, writeTimeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      writeTimeout,
	}
	goes := co.NewGoes(context.Background())
	goes.Go(func(context.Context) {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Stop()
		goes.Wait()
	}, nil
}
