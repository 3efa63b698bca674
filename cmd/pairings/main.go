// Command pairings plans the next round of a Swiss tournament kept in plain
// text files and appends it to the results log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/okian/swissjury/internal/adapters/textfile"
	"github.com/okian/swissjury/internal/domain/judging"
	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/internal/domain/ranking"
	"github.com/okian/swissjury/internal/domain/round"
	"github.com/okian/swissjury/pkg/logger"
)

type options struct {
	paths         textfile.Paths
	strategy      string
	exactLimit    int
	iterationCap  int
	penalty       float64
	workers       int
	seed          int64
	byeName       string
	shuffleJudges bool
	dryRun        bool
	standings     bool
	timeout       time.Duration
	verbose       bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("pairings", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.paths.Results, "results", "pairings.txt", "results log; the planned round is appended to it")
	fs.StringVar(&o.paths.Participants, "participants", "", "optional participant list (Name | Affiliation per line)")
	fs.StringVar(&o.paths.Judges, "judges", "", "optional YAML judge definitions")
	fs.StringVar(&o.strategy, "strategy", string(pairing.StrategyAuto), "pairing search: auto, exact, random or greedy")
	fs.IntVar(&o.exactLimit, "exact-limit", 12, "largest field searched exhaustively in auto mode")
	fs.IntVar(&o.iterationCap, "iterations", 1_000_000, "randomized search budget; 0 pairs greedily")
	fs.Float64Var(&o.penalty, "rematch-penalty", 1000, "cost added for every repeated match-up")
	fs.IntVar(&o.workers, "workers", 1, "goroutines for the randomized search")
	fs.Int64Var(&o.seed, "seed", 0, "seed for the search and judge shuffle (0 uses the clock)")
	fs.StringVar(&o.byeName, "bye", round.DefaultByeName, "name of the synthetic participant for odd fields")
	fs.BoolVar(&o.shuffleJudges, "shuffle-judges", true, "shuffle the judge pool before ordering by load")
	fs.BoolVar(&o.dryRun, "dry-run", false, "print the round without appending it")
	fs.BoolVar(&o.standings, "standings", false, "print the standings the round is paired from")
	fs.DurationVar(&o.timeout, "timeout", time.Minute, "give up on the search after this long")
	fs.BoolVar(&o.verbose, "v", false, "log search details to stderr")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.seed == 0 {
		o.seed = time.Now().UnixNano()
	}
	return o, nil
}

func main() {
	if err := logger.InitWithWriter(os.Stderr, false); err != nil {
		fmt.Fprintf(os.Stderr, "%v: failed to initialize logging: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if !o.verbose {
		_ = logger.SetLevelString("warn")
	}
	strategy, err := pairing.ParseStrategy(o.strategy)
	if err != nil {
		return err
	}

	in, err := textfile.Load(o.paths)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	planner := round.NewOrchestrator(
		round.WithEngine(pairing.NewEngine(
			pairing.WithStrategy(strategy),
			pairing.WithExactLimit(o.exactLimit),
			pairing.WithIterationCap(o.iterationCap),
			pairing.WithRematchPenalty(o.penalty),
			pairing.WithWorkers(o.workers),
			pairing.WithSeed(o.seed),
			pairing.WithLogger(logger.Named("pairing")),
		)),
		round.WithAssigner(judging.NewAssigner(
			judging.WithShuffle(o.shuffleJudges),
			judging.WithSeed(o.seed),
			judging.WithLogger(logger.Named("judging")),
		)),
		round.WithByeName(o.byeName),
		round.WithLogger(logger.Named("round")),
	)

	plan, err := planner.Plan(ctx, in)
	if err != nil {
		return err
	}
	if len(in.Judges) == 0 {
		// Without a judge pool the log keeps the plain "A vs B --> 0 vs 0" form.
		for i := range plan.Matches {
			plan.Matches[i].Judge = ""
		}
	}

	if o.standings {
		printStandings(stdout, plan.Standings)
	}
	printPlan(stdout, plan)

	if o.dryRun {
		return nil
	}
	return textfile.AppendRound(o.paths.Results, plan)
}

func printStandings(w io.Writer, table []ranking.Standing) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tName\tScore\tBuchholz")
	for _, s := range table {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\n", s.Rank, s.Name, s.Score, ranking.Buchholz(s.Participant, 0))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func printPlan(w io.Writer, plan round.Plan) {
	fmt.Fprintf(w, "Round %d (%s, cost %g, %d rematches)\n",
		plan.Round, plan.Pairing.Strategy, plan.Pairing.Cost, plan.Pairing.Rematches)
	for _, m := range plan.Matches {
		note := ""
		switch {
		case m.IsUnassigned():
			note = " [no eligible judge]"
		case m.Conflict:
			note = " [judge repeat]"
		}
		judge := m.Judge
		if judge == "" {
			judge = "-"
		}
		fmt.Fprintf(w, "  %2d. %s vs %s, judge %s%s\n", m.Board, m.Participant1, m.Participant2, judge, note)
	}
	if plan.Bye != nil {
		fmt.Fprintf(w, "  bye: %s\n", plan.Bye.Participant1)
	}
}
