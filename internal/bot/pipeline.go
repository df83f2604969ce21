package bot

import (
	"doudizhu/internal/bot/internal"
)

// SelectionContext holds the state for the hand organization decision pipeline.
type SelectionContext struct {
	Candidates    []internal.HandComposition
	CurrentBest   internal.HandComposition
	SelectedIndex int
}

// SelectionRule represents a logic unit that can influence which hand organization strategy is chosen.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// DefaultSelectionRules run in order; a later rule overrides an earlier one
// only when it finds a strictly better candidate.
var DefaultSelectionRules = []SelectionRule{
	&FavorFewerGroupsRule{},
	&FavorFewerSinglesRule{},
}

// SelectComposition runs the rules over the candidates and returns the winner.
func SelectComposition(candidates []internal.HandComposition, rules []SelectionRule) internal.HandComposition {
	if len(candidates) == 0 {
		return internal.HandComposition{}
	}
	ctx := &SelectionContext{Candidates: candidates, CurrentBest: candidates[0]}
	for _, rule := range rules {
		rule.Apply(ctx)
	}
	return ctx.CurrentBest
}

// FavorFewerGroupsRule prefers the organization that empties the hand in the fewest plays.
type FavorFewerGroupsRule struct{}

func (r *FavorFewerGroupsRule) Name() string { return "FavorFewerGroups" }

func (r *FavorFewerGroupsRule) Apply(ctx *SelectionContext) {
	ctx.pickMin(countGroups)
}

// FavorFewerSinglesRule prefers the organization with the fewest loose singles.
type FavorFewerSinglesRule struct{}

func (r *FavorFewerSinglesRule) Name() string { return "FavorFewerSingles" }

func (r *FavorFewerSinglesRule) Apply(ctx *SelectionContext) {
	ctx.pickMin(func(c internal.HandComposition) int { return len(c.Singles) })
}

func (ctx *SelectionContext) pickMin(measure func(internal.HandComposition) int) {
	bestIdx := ctx.SelectedIndex
	best := measure(ctx.CurrentBest)

	for i, candidate := range ctx.Candidates {
		if m := measure(candidate); m < best {
			best = m
			bestIdx = i
		}
	}

	if bestIdx != ctx.SelectedIndex {
		ctx.SelectedIndex = bestIdx
		ctx.CurrentBest = ctx.Candidates[bestIdx]
	}
}

func countGroups(c internal.HandComposition) int {
	n := len(c.Bombs) + len(c.Airplanes) + len(c.Straights) + len(c.DoubleStraights) +
		len(c.Pairs) + len(c.Singles)
	if len(c.Rocket) > 0 {
		n++
	}
	// a triple carries one single or pair with it
	n += len(c.Triples)
	return n
}
