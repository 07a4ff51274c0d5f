// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// pollbet creates, looks up and votes on PollBet polls, and serves them over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/betcoin/pollbet/api"
	"github.com/betcoin/pollbet/cmd/pollbet/httpserver"
	"github.com/betcoin/pollbet/contracts/pollbet"
	"github.com/betcoin/pollbet/log"
	"github.com/betcoin/pollbet/metrics"
	"github.com/betcoin/pollbet/poll"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/view"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")

	// stdout receives the rendered view models.
	stdout io.Writer = os.Stdout
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "pollbet"
	app.Usage = "Client of the PollBet poll registry"
	app.Flags = []cli.Flag{
		configFlag,
		nodeFlag,
		contractFlag,
		abiVersionFlag,
		keyFileFlag,
		keystoreFlag,
		cacheSizeFlag,
		maxAgeFlag,
		pollIntervalFlag,
		lateWindowFlag,
		apiAddrFlag,
		apiCorsFlag,
		enableAPILogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		ntpServerFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
	app.Commands = []cli.Command{
		{
			Name:      "lookup",
			Usage:     "print a poll",
			ArgsUsage: "<poll-id>",
			Flags:     []cli.Flag{retriesFlag, retryDelayFlag},
			Action:    lookupAction,
		},
		{
			Name:   "create",
			Usage:  "submit a new poll",
			Flags:  []cli.Flag{questionFlag, answerFlag, startFlag, durationFlag, waitFlag},
			Action: createAction,
		},
		{
			Name:      "vote",
			Usage:     "vote on a poll",
			ArgsUsage: "<poll-id>",
			Flags:     []cli.Flag{optionFlag, waitFlag},
			Action:    voteAction,
		},
		{
			Name:      "reconcile",
			Usage:     "wait for a submitted write to confirm",
			ArgsUsage: "<tx-id>",
			Flags:     []cli.Flag{kindFlag, pollFlag, timeoutFlag},
			Action:    reconcileAction,
		},
		{
			Name:   "serve",
			Usage:  "serve the poll API over HTTP",
			Action: serveAction,
		},
	}
	return app
}

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config, installs the logger and wires the stack.
func setup(ctx *cli.Context, websocket bool) (*Config, *stack, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	initLogger(cfg, os.Stderr, os.Stderr.Fd())
	s, err := newStack(cfg, websocket)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

// render prints the model and turns an error model into an error.
func render[T any](m view.Model[T]) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return err
	}
	if m.IsError() {
		return errors.Errorf("%v: %v", m.Error.Kind, m.Error.Message)
	}
	return nil
}

func pollIDArg(ctx *cli.Context) (uint64, error) {
	if ctx.NArg() != 1 {
		return 0, errors.New("expect exactly one poll id")
	}
	id, err := strconv.ParseUint(ctx.Args().First(), 0, 64)
	if err != nil {
		return 0, errors.Wrap(err, "poll id")
	}
	return id, nil
}

// settle waits for the action to confirm when wait is set.
func settle(s *stack, m view.Model[view.ActionView], wait time.Duration) error {
	if wait <= 0 || !m.IsReady() {
		return render(m)
	}
	return render(s.adapter.Reconcile(context.Background(), m.Data.ID, wait))
}

func lookupAction(ctx *cli.Context) error {
	id, err := pollIDArg(ctx)
	if err != nil {
		return err
	}
	_, s, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	var m view.Model[view.PollView]
	retry(context.Background(), ctx.Int(retriesFlag.Name), ctx.Duration(retryDelayFlag.Name), func() error {
		m = s.adapter.Poll(context.Background(), id, true)
		if m.IsError() {
			return poll.NewError(m.Kind(), "lookup", errors.New(m.Error.Message))
		}
		return nil
	})
	return render(m)
}

func createAction(ctx *cli.Context) error {
	start := time.Now()
	if v := ctx.String(startFlag.Name); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.Wrap(err, "start")
		}
		start = t
	}
	form := view.CreateForm{}.
		WithQuestion(ctx.String(questionFlag.Name)).
		WithWindow(start, start.Add(ctx.Duration(durationFlag.Name)))
	for _, a := range ctx.StringSlice(answerFlag.Name) {
		form = form.WithAnswer(a)
	}

	_, s, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	return settle(s, s.adapter.Create(context.Background(), form), ctx.Duration(waitFlag.Name))
}

func voteAction(ctx *cli.Context) error {
	id, err := pollIDArg(ctx)
	if err != nil {
		return err
	}
	_, s, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ballot := view.Ballot{PollID: id}.Select(ctx.Int(optionFlag.Name))
	return settle(s, s.adapter.Vote(context.Background(), ballot), ctx.Duration(waitFlag.Name))
}

func reconcileAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expect exactly one transaction id")
	}
	txID, err := thor.ParseBytes32(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "transaction id")
	}
	if txID.IsZero() {
		return errors.New("transaction id: zero id")
	}
	h := &pollbet.Handle{TxID: txID, Kind: poll.ActionKind(ctx.String(kindFlag.Name)), Expiration: math.MaxUint32}
	switch h.Kind {
	case poll.ActionCreate:
	case poll.ActionVote:
		if id := ctx.Int64(pollFlag.Name); id >= 0 {
			pollID := uint64(id)
			h.PollID = &pollID
		}
	default:
		return errors.Errorf("unknown kind %q", h.Kind)
	}

	_, s, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	a := s.registry.Adopt(h)
	return render(s.adapter.Reconcile(context.Background(), a.ID, ctx.Duration(timeoutFlag.Name)))
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	cfg, s, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	exitSignal := handleExitSignal()

	if cfg.EnableMetrics {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		logger.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	const maxWait = time.Minute
	handler := api.New(s.adapter, api.Options{
		AllowedOrigins:   cfg.APICors,
		EnableReqLogger:  cfg.EnableAPILogs,
		EnableMetrics:    cfg.EnableMetrics,
		MaxReconcileWait: maxWait,
	})
	url, closeFunc, err := httpserver.StartAPIServer(cfg.APIAddr, handler, maxWait+10*time.Second)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeFunc() }()
	logger.Info("API server started", "url", url, "node", cfg.Node, "contract", cfg.Contract)

	done := make(chan struct{})
	go func() {
		defer close(done)
		followBlocks(exitSignal, s.client, s.registry, 5*time.Second)
	}()

	<-exitSignal.Done()
	<-done
	return nil
}
