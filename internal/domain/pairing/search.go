package pairing

import (
	"context"
	"math"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// exact enumerates every perfect matching over a seeded shuffle of the field
// and keeps the first one with minimal cost. Branches whose partial cost
// already reaches the best total are cut; only strictly cheaper matchings
// replace the best, so cutting them never changes the answer.
func (f *field) exact(ctx context.Context, seed int64) (match, error) {
	n := len(f.ps)
	order := rand.New(rand.NewSource(seed)).Perm(n)

	var (
		used    = make([]bool, n)
		current = make([][2]int, 0, n/2)
		best    = match{cost: math.Inf(1)}
		visited int
		err     error
	)

	var walk func(partial float64)
	walk = func(partial float64) {
		if err != nil {
			return
		}
		visited++
		if visited%ctxCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return
			}
		}

		first := -1
		for _, i := range order {
			if !used[i] {
				first = i
				break
			}
		}
		if first < 0 {
			best.iterations++
			if partial < best.cost {
				best.cost = partial
				best.pairs = slices.Clone(current)
			}
			return
		}

		used[first] = true
		for _, j := range order {
			if used[j] {
				continue
			}
			c := partial + f.cost[first][j]
			if c >= best.cost {
				continue
			}
			used[j] = true
			current = append(current, [2]int{first, j})
			walk(c)
			current = current[:len(current)-1]
			used[j] = false
		}
		used[first] = false
	}
	walk(0)

	if err != nil {
		return match{}, err
	}
	return best, nil
}

// greedy walks the field in rank order. Each unmatched participant takes the
// closest-scoring unmatched opponent it has not met, or the closest overall
// when every candidate is a rematch. Ties go to the better-ranked candidate.
func (f *field) greedy() match {
	n := len(f.ps)
	used := make([]bool, n)
	sol := match{pairs: make([][2]int, 0, n/2), iterations: 1}

	for _, i := range f.byRank {
		if used[i] {
			continue
		}
		used[i] = true
		fresh, nearest := -1, -1
		freshGap, nearestGap := math.Inf(1), math.Inf(1)
		for _, j := range f.byRank {
			if used[j] {
				continue
			}
			gap := math.Abs(f.ps[i].Score - f.ps[j].Score)
			if gap < nearestGap {
				nearest, nearestGap = j, gap
			}
			if !f.rematch[i][j] && gap < freshGap {
				fresh, freshGap = j, gap
			}
		}
		j := fresh
		if j < 0 {
			j = nearest
		}
		used[j] = true
		sol.pairs = append(sol.pairs, [2]int{i, j})
		sol.cost += f.cost[i][j]
	}
	return sol
}

// sharedBest is the incumbent shared by random search workers.
type sharedBest struct {
	mu    sync.Mutex
	cost  float64
	perm  []int
	pairs [][2]int
}

func (s *sharedBest) offer(cost float64, perm []int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cost < s.cost {
		s.cost = cost
		s.perm = slices.Clone(perm)
		s.pairs = nil
	}
	return s.cost
}

// random starts from the greedy pairing and samples uniformly random
// matchings until one reaches the lower bound or the cap is spent. The cap is
// split across workers, each with its own source seeded from seed.
func (f *field) random(ctx context.Context, seed int64, iterationCap, workers int) (match, error) {
	start := f.greedy()
	lb := f.lowerBound()
	if start.cost <= lb {
		return start, nil
	}

	best := &sharedBest{cost: start.cost, pairs: start.pairs}
	var (
		done       atomic.Bool
		iterations atomic.Int64
	)
	iterations.Store(int64(start.iterations))

	workers = max(1, min(workers, iterationCap))
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		budget := iterationCap / workers
		if w < iterationCap%workers {
			budget++
		}
		rng := rand.New(rand.NewSource(seed + int64(w)))
		g.Go(func() error {
			return f.sample(gctx, rng, budget, lb, best, &done, &iterations)
		})
	}
	if err := g.Wait(); err != nil {
		return match{}, err
	}

	sol := match{cost: best.cost, pairs: best.pairs, iterations: int(iterations.Load())}
	if sol.pairs == nil {
		sol.pairs = adjacent(best.perm)
	}
	return sol, nil
}

func (f *field) sample(
	ctx context.Context,
	rng *rand.Rand,
	budget int,
	lb float64,
	best *sharedBest,
	done *atomic.Bool,
	iterations *atomic.Int64,
) error {
	n := len(f.ps)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	local := math.Inf(1)
	for it := 0; it < budget; it++ {
		if done.Load() {
			return nil
		}
		if it%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		var c float64
		for i := 0; i < n; i += 2 {
			c += f.cost[perm[i]][perm[i+1]]
		}
		iterations.Add(1)
		if c < local {
			local = best.offer(c, perm)
			if local <= lb {
				done.Store(true)
				return nil
			}
		}
	}
	return nil
}

func adjacent(perm []int) [][2]int {
	pairs := make([][2]int, 0, len(perm)/2)
	for i := 0; i+1 < len(perm); i += 2 {
		pairs = append(pairs, [2]int{perm[i], perm[i+1]})
	}
	return pairs
}
