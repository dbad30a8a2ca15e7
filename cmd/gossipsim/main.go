// Command gossipsim runs the gossip pending-block consensus simulator: a
// discrete-event simulation of agents converging on shared pending blocks
// over a synthetic peer-to-peer overlay.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/gossimlabs/gossipdes/des"
	"github.com/gossimlabs/gossipdes/report"
	"github.com/gossimlabs/gossipdes/topology"
)

func main() {
	app := cli.NewApp()
	app.Name = "gossipsim"
	app.Usage = "simulate a gossip-based pending-block consensus protocol"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "n", Value: 50, Usage: "number of agents"},
		cli.IntFlag{Name: "m", Value: 4, Usage: "graph generator parameter (neighbor/attachment count)"},
		cli.Float64Flag{Name: "interval", Value: 60, Usage: "broadcast interval T, in simulated seconds"},
		cli.IntFlag{Name: "l", Usage: "block closure threshold (defaults to n, clamped to n)"},
		cli.StringFlag{Name: "graph", Value: string(topology.SmallWorld), Usage: "smallworld|barabasi|complete"},
		cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed for the simulator's single PRNG source"},
		cli.IntFlag{Name: "blocks", Value: 3, Usage: "number of blocks to close before stopping"},
		cli.BoolFlag{Name: "quiet", Usage: "suppress per-block progress output"},
		cli.StringFlag{Name: "config", Usage: "path to a toml config file overriding the flags above"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger, _ := zap.NewProduction()
		logger.Sugar().Errorw("simulation failed", "err", err)
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := runConfig{
		Config: des.Config{
			N:                 c.Int("n"),
			M:                 c.Int("m"),
			BroadcastInterval: c.Float64("interval"),
			L:                 c.Int("l"),
			GraphType:         topology.Type(c.String("graph")),
			Seed:              c.Int64("seed"),
		},
		NumBlocks:     c.Int("blocks"),
		PrintProgress: !c.Bool("quiet"),
	}

	if path := c.String("config"); path != "" {
		loaded, err := loadConfigFile(path, cfg)
		if err != nil {
			return errors.Wrap(err, "loading config file")
		}
		cfg = loaded
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	defer logger.Sync() //nolint:errcheck
	sugar := logger.Sugar()

	sugar.Infow("starting simulation",
		"agents", cfg.N, "graph", string(cfg.GraphType), "interval", cfg.BroadcastInterval,
		"L", cfg.Config.EffectiveL(), "num_blocks", cfg.NumBlocks)

	sched, err := des.NewScheduler(cfg.Config)
	if err != nil {
		return errors.Wrap(err, "constructing scheduler")
	}

	reporter := report.New(!cfg.PrintProgress)
	summary, err := sched.Run(cfg.NumBlocks, reporter.OnBlockClose)
	if err != nil {
		return errors.Wrap(err, "running simulation")
	}
	reporter.OnComplete(*summary)

	if summary.TerminatedEarly {
		sugar.Warnw("event queue drained before the requested block count was reached",
			"completed_blocks", summary.CompletedBlockCount)
	}
	return nil
}
