package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	scenariosKey = "scenarios"
	repeatsKey   = "repeats"
	verboseKey   = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_render",
		Usage: "Run render and patch scenarios against an in-memory document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  scenariosKey,
				Usage: "YAML scenario file, defaults to the built in set",
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Runs per scenario, the fastest is reported",
				Value: 3,
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log runtime warnings",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting render benchmark, please wait...")
	defer log.Print("Finished render benchmark")

	scenarios, err := loadScenarios(cmd.String(scenariosKey))
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if cmd.Bool(verboseKey) {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	repeats := max(int(cmd.Uint(repeatsKey)), 1)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "rows", "op", "components", "nTimes", "time", "per op",
		"flushes", "watcher runs", "mutations", "moved", "checksum", "verified",
	})

	failed := 0
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("Running '%s' scenario", s.Name)

		// warm up
		if _, err := runScenario(s, logger); err != nil {
			return err
		}

		var best *result
		for i := range repeats {
			log.Printf("Running '%s' scenario, iteration %d/%d %d%%", s.Name, i+1, repeats, (i+1)*100/repeats)
			res, err := runScenario(s, logger)
			if err != nil {
				return err
			}
			if best == nil || res.duration < best.duration {
				best = res
			}
		}
		if !best.verified {
			failed++
		}

		perOp := best.duration / time.Duration(s.Iterations)
		table.Append([]string{
			s.Name,
			humanize.Comma(int64(s.Rows)),
			string(s.Op),
			strconv.FormatBool(s.Components),
			humanize.Comma(int64(s.Iterations)),
			fmt.Sprint(best.duration),
			fmt.Sprint(perOp),
			humanize.Comma(int64(best.flushes)),
			humanize.Comma(int64(best.renders)),
			humanize.Comma(int64(best.mutations)),
			humanize.Comma(int64(best.stats.Moved)),
			fmt.Sprintf("%016x", best.checksum),
			strconv.FormatBool(best.verified),
		})
	}
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%d scenario(s) did not match a fresh render", failed)
	}
	return nil
}
