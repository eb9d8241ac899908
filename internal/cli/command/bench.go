package command

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/memkv-go/internal/cli/connection"
	"github.com/yndnr/memkv-go/internal/cli/output"
	"github.com/yndnr/memkv-go/pkg/resp"
)

// BenchResult summarizes one benchmark phase.
type BenchResult struct {
	Command   string        `json:"command" yaml:"command"`
	Requests  int           `json:"requests" yaml:"requests"`
	Clients   int           `json:"clients" yaml:"clients"`
	Errors    int           `json:"errors" yaml:"errors"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	OpsPerSec float64       `json:"ops_per_sec" yaml:"ops_per_sec"`
	Avg       time.Duration `json:"avg" yaml:"avg"`
	P50       time.Duration `json:"p50" yaml:"p50" table:"wide"`
	P99       time.Duration `json:"p99" yaml:"p99" table:"wide"`
	Max       time.Duration `json:"max" yaml:"max" table:"wide"`
}

// BenchOptions configures a benchmark run.
type BenchOptions struct {
	Clients  int
	Requests int
	DataSize int
	Keyspace int
	// TTL, when positive, is sent as PX on every SET.
	TTL time.Duration
}

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Run a concurrent SET/GET load against the server",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "clients", Aliases: []string{"c"}, Usage: "parallel connections", Value: 50},
			&cli.IntFlag{Name: "requests", Aliases: []string{"n"}, Usage: "requests per phase", Value: 100000},
			&cli.IntFlag{Name: "data-size", Aliases: []string{"d"}, Usage: "value size in bytes", Value: 3},
			&cli.IntFlag{Name: "keyspace", Aliases: []string{"r"}, Usage: "number of distinct keys", Value: 1000},
			&cli.DurationFlag{Name: "ttl", Usage: "expiry sent with every SET"},
		},
		Action: benchAction,
	}
}

func benchAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	opts := BenchOptions{
		Clients:  c.Int("clients"),
		Requests: c.Int("requests"),
		DataSize: c.Int("data-size"),
		Keyspace: c.Int("keyspace"),
		TTL:      c.Duration("ttl"),
	}
	if opts.Clients <= 0 || opts.Requests <= 0 || opts.Keyspace <= 0 || opts.DataSize < 0 {
		return fmt.Errorf("clients, requests and keyspace must be positive")
	}

	pool := connection.NewPool(c.Context, connection.PoolConfig{
		Addr:    flags.Server,
		Timeout: flags.Timeout,
		Size:    opts.Clients,
	})
	defer pool.Close(context.Background())

	// Fail fast when the server is unreachable.
	if _, err := pool.Do(c.Context, "PING"); err != nil {
		return fmt.Errorf("ping %s: %w", flags.Server, err)
	}

	spinner := output.NewSpinner(stderr(c), fmt.Sprintf("benchmarking %s", flags.Server))
	spinner.Start()
	results, err := RunBench(c.Context, pool, opts)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Stop()

	return printResult(c, flags, results)
}

// RunBench runs a SET phase then a GET phase over the same keys.
func RunBench(ctx context.Context, pool *connection.Pool, opts BenchOptions) ([]BenchResult, error) {
	value := strings.Repeat("x", opts.DataSize)
	px := ""
	if opts.TTL > 0 {
		px = strconv.FormatInt(max(opts.TTL.Milliseconds(), 1), 10)
	}

	set := func(i int) []string {
		args := []string{"SET", benchKey(i, opts.Keyspace), value}
		if px != "" {
			args = append(args, "PX", px)
		}
		return args
	}
	get := func(i int) []string {
		return []string{"GET", benchKey(i, opts.Keyspace)}
	}

	var results []BenchResult
	for _, phase := range []struct {
		name string
		args func(int) []string
	}{{"SET", set}, {"GET", get}} {
		r, err := runPhase(ctx, pool, opts, phase.name, phase.args)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func benchKey(i, keyspace int) string {
	return "key:" + strconv.Itoa(i%keyspace)
}

// runPhase issues opts.Requests commands from opts.Clients workers.
func runPhase(ctx context.Context, pool *connection.Pool, opts BenchOptions, name string, args func(int) []string) (BenchResult, error) {
	var (
		next      atomic.Int64
		errCount  atomic.Int64
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, opts.Requests)
		wg        sync.WaitGroup
	)

	start := time.Now()
	for w := 0; w < opts.Clients; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]time.Duration, 0, opts.Requests/opts.Clients+1)
			for {
				i := int(next.Add(1)) - 1
				if i >= opts.Requests || ctx.Err() != nil {
					break
				}
				t0 := time.Now()
				reply, err := pool.Do(ctx, args(i)...)
				local = append(local, time.Since(t0))
				if _, isErr := reply.(resp.Error); err != nil || isErr {
					errCount.Add(1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		return BenchResult{}, err
	}

	result := BenchResult{
		Command:  name,
		Requests: len(latencies),
		Clients:  opts.Clients,
		Errors:   int(errCount.Load()),
		Duration: elapsed,
	}
	summarize(&result, latencies)
	return result, nil
}

// summarize fills throughput and latency figures from raw samples.
func summarize(r *BenchResult, latencies []time.Duration) {
	if len(latencies) == 0 {
		return
	}
	slices.Sort(latencies)

	var total time.Duration
	for _, l := range latencies {
		total += l
	}
	r.Avg = total / time.Duration(len(latencies))
	r.P50 = percentile(latencies, 50)
	r.P99 = percentile(latencies, 99)
	r.Max = latencies[len(latencies)-1]
	if r.Duration > 0 {
		r.OpsPerSec = float64(len(latencies)) / r.Duration.Seconds()
	}
}

// percentile returns the nearest-rank percentile of sorted samples.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
