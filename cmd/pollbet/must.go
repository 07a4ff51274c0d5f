// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"

	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/log"
	"github.com/betcoin/pollbet/registry"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient"
	"github.com/betcoin/pollbet/thorclient/bind"
	"github.com/betcoin/pollbet/view"
)

// initLogger installs the root logger, logfmt on terminals and JSON otherwise.
func initLogger(cfg *Config, w io.Writer, fd uintptr) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(cfg.Verbosity))

	var handler slog.Handler
	if !cfg.JSONLogs && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		handler = log.LogfmtHandlerWithLevel(w, &level)
	} else {
		handler = log.JSONHandlerWithLevel(w, &level)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

// passwordReader reads the keystore password, from the terminal by default.
var passwordReader = func() (string, error) {
	if pass, ok := os.LookupEnv(envVar("PASSWORD")); ok {
		return pass, nil
	}
	t, err := tty.Open()
	if err != nil {
		return "", errors.Wrap(err, "open tty")
	}
	defer t.Close()

	os.Stderr.WriteString("Enter keystore password: ")
	pass, err := t.ReadPassword()
	os.Stderr.WriteString("\n")
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return pass, nil
}

// loadSigner returns the configured sender, or nil when none is configured.
func loadSigner(cfg *Config) (bind.Signer, error) {
	switch {
	case cfg.KeyFile != "":
		key, err := crypto.LoadECDSA(cfg.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "load key file")
		}
		return bind.NewSigner(key), nil
	case cfg.Keystore != "":
		content, err := os.ReadFile(cfg.Keystore)
		if err != nil {
			return nil, errors.Wrap(err, "read keystore")
		}
		pass, err := passwordReader()
		if err != nil {
			return nil, err
		}
		key, err := keystore.DecryptKey(content, strings.TrimRight(pass, "\r\n"))
		if err != nil {
			return nil, errors.Wrap(err, "decrypt keystore")
		}
		return bind.NewSigner(key.PrivateKey), nil
	default:
		return nil, nil
	}
}

// clockOffset measures the local clock against the NTP server. Failures are
// logged and give a zero offset.
func clockOffset(server string) time.Duration {
	if server == "" {
		return 0
	}
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return 0
	}
	if resp.ClockOffset > time.Second || resp.ClockOffset < -time.Second {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
	return resp.ClockOffset
}

// stack is the wired binding, registry and view adapter.
type stack struct {
	client   *thorclient.Client
	registry *registry.Registry
	adapter  *view.Adapter
	signer   bind.Signer
}

func (s *stack) Close() {
	s.registry.Close()
}

func newStack(cfg *Config, websocket bool) (*stack, error) {
	contract, err := thor.ParseAddress(cfg.Contract)
	if err != nil {
		return nil, errors.Wrap(err, "contract")
	}

	client := thorclient.New(cfg.Node)
	if websocket {
		if client, err = thorclient.NewWithWS(cfg.Node); err != nil {
			return nil, errors.Wrap(err, "node")
		}
	}

	binding, err := pollbet.New(client, contract, cfg.ABIVersion)
	if err != nil {
		return nil, err
	}

	offset := clockOffset(cfg.NTPServer)
	reg, err := registry.New(binding, registry.Options{
		CacheSize:    cfg.CacheSize,
		MaxAge:       cfg.MaxAge,
		PollInterval: cfg.PollInterval,
		LateWindow:   cfg.LateWindow,
		Clock:        func() time.Time { return time.Now().Add(offset) },
	})
	if err != nil {
		return nil, err
	}

	signer, err := loadSigner(cfg)
	if err != nil {
		reg.Close()
		return nil, err
	}
	if signer != nil {
		logger.Info("sender loaded", "address", signer.Address())
	}
	return &stack{
		client:   client,
		registry: reg,
		adapter:  view.NewAdapter(reg, signer),
		signer:   signer,
	}, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
