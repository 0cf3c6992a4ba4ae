// Command asyncdemo exercises the asyncio package end to end: a
// send-generator computing primes, and a task tree that sleeps and awaits
// across three independently-driven engines.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zjkmxy/asyncio-go"
)

const usage = `
asyncdemo runs a small tour of the asyncio package.

USAGE:
  asyncdemo [OPTIONS]

OPTIONS:
  -n int      how many primes to print (default 10)
  -verbose    emit structured lifecycle events via zap
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() { println(usage[1:]) }
	n := flag.Int("n", 10, "how many primes to print")
	verbose := flag.Bool("verbose", false, "emit structured lifecycle events")
	flag.Parse()

	var sink asyncio.EventSink = asyncio.NopSink{}
	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()
		sink = asyncio.NewZapSink(log)
	}

	printPrimes(*n)
	return runTaskDemo(sink)
}

// printPrimes drives a send-generator standing in for the reference
// design's coroutine-based prime sieve.
func printPrimes(n int) {
	g := asyncio.NewSendGenerator(func(c *asyncio.GenCtx[int, struct{}, struct{}]) struct{} {
		primes := []int{}
		for candidate := 2; len(primes) < n; candidate++ {
			isPrime := true
			for _, p := range primes {
				if p*p > candidate {
					break
				}
				if candidate%p == 0 {
					isPrime = false
					break
				}
			}
			if isPrime {
				primes = append(primes, candidate)
				c.Yield(candidate)
			}
		}
		return struct{}{}
	})

	fmt.Printf("first %d primes:", n)
	for v, ok := g.Next(); ok; v, ok = g.Next() {
		fmt.Printf(" %d", v)
	}
	fmt.Println()
}

// runTaskDemo runs one engine per errgroup worker, each hosting a small
// task tree with a sleep and an inner-task await, matching the reference
// design's hello_world-with-sleep scenario.
func runTaskDemo(sink asyncio.EventSink) error {
	g, _ := errgroup.WithContext(context.Background())
	for worker := 0; worker < 3; worker++ {
		worker := worker
		g.Go(func() error {
			clock := asyncio.NewRealTimer()
			engine := asyncio.NewEngine(clock, asyncio.WithEventSink(sink))

			greeter := asyncio.NewTask(func(c *asyncio.TaskCtx[string]) string {
				c.Sleep(5 * time.Millisecond)
				return fmt.Sprintf("worker %d says hello", worker)
			})

			outer := asyncio.NewTask(func(c *asyncio.TaskCtx[struct{}]) struct{} {
				msg, err := asyncio.AwaitTask(c, greeter)
				if err != nil {
					return struct{}{}
				}
				fmt.Println(msg)
				return struct{}{}
			})

			asyncio.ScheduleTask(engine, outer, 0)
			engine.Run()
			return outer.Close()
		})
	}
	return g.Wait()
}
