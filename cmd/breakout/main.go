package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/breakout/audio"
	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/network"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/render"
	"github.com/lixenwraith/breakout/service"
	"github.com/lixenwraith/breakout/session"
	"github.com/lixenwraith/breakout/status"
	"github.com/lixenwraith/breakout/store"
)

var (
	roleFlag    = flag.String("role", "", "Network role: local, host, server, client, peer (overrides BREAKOUT_ROLE)")
	addrFlag    = flag.String("addr", "", "Listen or connect address (overrides BREAKOUT_ADDR)")
	recordsFlag = flag.String("records", "", "SQLite file for session records (overrides BREAKOUT_RECORDS)")
	muteFlag    = flag.Bool("mute", false, "Disable audio")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "breakout: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *roleFlag != "" {
		cfg.Role = *roleFlag
	}
	if *addrFlag != "" {
		cfg.Address = *addrFlag
	}
	if *recordsFlag != "" {
		cfg.RecordsPath = *recordsFlag
	}
	if *muteFlag {
		cfg.AudioEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	netRole, err := network.ParseRole(cfg.Role)
	if err != nil {
		return err
	}
	headless := netRole.SessionRole() == core.RoleAuthority

	logger, closeLog, err := openLogger(cfg, headless)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	reg := status.NewRegistry()

	// Services
	hub := service.NewHub(logger)
	netSvc := network.NewService()
	audioSvc := audio.NewService()
	storeSvc := store.NewService()
	var renderSvc *render.Service

	services := []service.Service{netSvc, audioSvc, storeSvc}
	if !headless {
		renderSvc = render.NewService()
		services = append(services, renderSvc)
	}
	if err := hub.Register(services...); err != nil {
		return err
	}

	netCfg, err := network.LoadConfig(netRole, cfg.Address)
	if err != nil {
		return err
	}
	if err := hub.InitAll(map[string][]any{
		"network": {netCfg, logger},
		"audio":   {&cfg, logger},
		"store":   {cfg.RecordsPath, logger},
		"render":  {reg, logger},
	}); err != nil {
		return err
	}
	defer hub.StopAll()

	// Session
	var transport engine.Transport
	if netRole != network.RoleNone {
		transport = netSvc
	}
	sess, err := session.New(cfg, transport, session.WithLogger(logger), session.WithStatus(reg))
	if err != nil {
		return err
	}
	netSvc.SetEventQueue(sess.Queue())
	netSvc.SetStatus(reg)
	hub.Contribute(sess.Accept)

	if err := hub.StartAll(); err != nil {
		return err
	}

	var input engine.InputSource = engine.NopInput{}
	var term *render.Terminal
	if renderSvc != nil {
		term = renderSvc.Terminal()
		input = term
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var clock engine.Clock = engine.SystemClock{}
	if err := sess.Start(clock.Now()); err != nil {
		return err
	}

	driver := engine.NewDriver(parameter.TickInterval, clock, func(now time.Time) {
		frame := input.Poll()
		if frame.Quit {
			cancel()
			return
		}
		sess.Tick(now, frame)
		if term != nil {
			term.Draw(sess.Snapshot())
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(func() error { return driver.Run(gctx) }))
	g.Go(guard(func() error { return reportStatus(gctx, reg, logger) }))
	runErr := g.Wait()

	sum := sess.Stop(clock.Now())
	recordCtx, recordCancel := context.WithTimeout(context.Background(), 2*time.Second)
	storeSvc.Record(recordCtx, sum)
	recordCancel()

	logger.Info("exit", "ticks", driver.Ticks(), "score", sum.Display, "blocks", sum.Blocks)
	hub.StopAll()
	fmt.Printf("session %s: score %d, %d blocks\n", sum.ID, sum.Display, sum.Blocks)
	return runErr
}

// guard routes panics in errgroup goroutines through the crash handler
func guard(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				core.HandleCrash(r)
			}
		}()
		return fn()
	}
}

// openLogger writes to stderr when headless, otherwise to the configured file
func openLogger(cfg config.Config, headless bool) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if headless || cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }, nil
}

// reportStatus logs the metrics registry periodically at debug level
func reportStatus(ctx context.Context, reg *status.Registry, logger *slog.Logger) error {
	ticker := time.NewTicker(parameter.StatusReportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			logger.Debug("status", "metrics", reg.Lines())
		}
	}
}
