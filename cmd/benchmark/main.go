package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/reactor/observer"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey     = "iters"
	maxWidthKey  = "max-width"
	maxHeightKey = "max-height"
	profileKey   = "cpuprofile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure how fast a write propagates through chains of computed values",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per graph",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  maxWidthKey,
				Usage: "Largest number of chains, grown by powers of ten",
				Value: 1_000,
			},
			&cli.UintFlag{
				Name:  maxHeightKey,
				Usage: "Longest chain, grown by powers of ten",
				Value: 1_000,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
				Value: "default.pgo",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	ww := powersOfTen(int(cmd.Uint(maxWidthKey)))
	hh := powersOfTen(int(cmd.Uint(maxHeightKey)))

	log.Printf("warming up")
	benchmarkPropagate("warmup", observer.Config{}, []int{10}, []int{10}, iters, false)

	benchmarkPropagate("Queued watchers", observer.Config{}, ww, hh, iters, true)
	benchmarkPropagate("Synchronous watchers", observer.Config{Synchronous: true}, ww, hh, iters, true)
	return nil
}

func powersOfTen(limit int) []int {
	var out []int
	for n := 1; n <= limit; n *= 10 {
		out = append(out, n)
	}
	return out
}

// benchmarkPropagate builds w chains of h computed values hanging off one
// reactive source, each ending in a watcher, then times single writes.
func benchmarkPropagate(title string, cfg observer.Config, ww, hh []int, iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			cfg.ErrorHandler = func(err error, _ *observer.Scope, info string) {
				log.Panicf("%s: %v", info, err)
			}
			sys := observer.NewSystem(cfg)
			src := observer.Observable(sys, observer.NewObject(observer.KV("v", 1)))

			runs := 0
			for range w {
				last := func() (any, error) {
					return src.Get("v").(int) + 1, nil
				}
				for range h {
					prev := sys.Computed(last)
					last = func() (any, error) {
						v, err := prev.Value()
						if err != nil {
							return nil, err
						}
						return v.(int) + 1, nil
					}
				}
				sys.Watch(last, func(any, any) error {
					runs++
					return nil
				}, observer.WatchOptions{})
			}

			for range iters {
				start := time.Now()
				src.Put("v", src.Get("v").(int)+1)
				if err := sys.Tick(); err != nil {
					log.Panic(err)
				}
				tach.AddTime(time.Since(start))
			}
			if runs != w*iters {
				log.Panicf("propagate %dx%d: expected %d watcher runs, got %d", w, h, w*iters, runs)
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
