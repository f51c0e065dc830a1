// Package batch balances many equations concurrently.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/stoich/chem"
)

var log = commonlog.GetLogger("stoich.batch")

// Outcome is the result of balancing one input line.
type Outcome struct {
	Index  int
	Input  string
	Result *chem.Result
	Err    error
}

// Run balances equations with at most workers goroutines. Outcomes are
// returned in input order. Balance failures are recorded per outcome; the
// returned error is non-nil only when ctx is cancelled.
func Run(ctx context.Context, equations []string, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, len(equations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, eq := range equations {
		if gctx.Err() != nil {
			break
		}
		i, eq := i, eq
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := chem.Balance(eq)
			if err != nil {
				log.Debugf("line %d: %s", i+1, err)
			}
			outcomes[i] = Outcome{Index: i, Input: eq, Result: r, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ReadLines reads one equation per line, skipping blank lines and lines
// starting with '#'.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read equations: %w", err)
	}
	return lines, nil
}
