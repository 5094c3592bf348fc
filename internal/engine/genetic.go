package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/BarCut/internal/model"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// chromosome is a candidate solution: an ordering of piece indices.
type chromosome struct {
	genes   []int
	fitness float64
}

// geneticOptimizer evolves the order in which demanded pieces are fed to
// first fit.
type geneticOptimizer struct {
	settings model.CutSettings
	config   GeneticConfig
	pieces   []demandPiece
	rng      *rand.Rand
}

func newGeneticOptimizer(settings model.CutSettings, config GeneticConfig, pieces []demandPiece, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		settings: settings,
		config:   config,
		pieces:   pieces,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// optimize runs the genetic algorithm and returns the best result.
func (g *geneticOptimizer) optimize() model.OptimizeResult {
	if len(g.pieces) == 0 {
		return model.OptimizeResult{Bars: []model.BarResult{}, Tally: map[int]int{}}
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := min(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})

	return g.decode(population[0])
}

// initPopulation creates a random population seeded with the longest-first order.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.pieces)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}
	if g.config.PopulationSize > 0 {
		population[0] = g.createGreedyChromosome()
	}
	return population
}

// createGreedyChromosome orders pieces longest first, which is what plain
// first-fit decreasing does.
func (g *geneticOptimizer) createGreedyChromosome() chromosome {
	indices := make([]int, len(g.pieces))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return g.pieces[indices[i]].length > g.pieces[indices[j]].length
	})
	return chromosome{genes: indices}
}

// evaluate scores a chromosome. Fewer bars and fewer unplaced pieces
// dominate; among equal counts the mean squared fill decides.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	result := g.decode(c)
	if len(result.Bars) == 0 {
		return 0
	}

	var fill float64
	for _, b := range result.Bars {
		if b.Available == 0 {
			continue
		}
		f := float64(b.PieceLength()) / float64(b.Available)
		fill += f * f
	}
	fill /= float64(len(result.Bars))

	unplaced := 0
	for _, u := range result.Unplaced {
		unplaced += u.Quantity
	}
	return -float64(len(result.Bars)) - float64(unplaced) + fill
}

// decode converts a chromosome into a packing result using first fit.
func (g *geneticOptimizer) decode(c chromosome) model.OptimizeResult {
	ordered := make([]demandPiece, len(c.genes))
	for i, idx := range c.genes {
		ordered[i] = g.pieces[idx]
	}
	return firstFit(g.settings, ordered)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion: reverse a segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// OptimizeGenetic runs the genetic algorithm over the demand list. The seed
// is fixed so identical input gives an identical plan.
func OptimizeGenetic(settings model.CutSettings, demand []model.DemandItem) model.OptimizeResult {
	pieces := expandDemand(demand)
	if len(pieces) == 0 {
		return model.OptimizeResult{Bars: []model.BarResult{}, Tally: map[int]int{}}
	}

	config := DefaultGeneticConfig()

	// Scale generations for larger problems
	if len(pieces) > 20 {
		config.Generations = 150
	}
	if len(pieces) > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}

	ga := newGeneticOptimizer(settings, config, pieces, 42)
	return ga.optimize()
}
