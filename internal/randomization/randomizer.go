// Package randomization assigns experimental conditions and topic orders.
package randomization

import (
	"math/rand/v2"
	"sync"

	"chatbot-evaluation/backend/internal/models"
)

// Randomizer draws uniformly from the closed condition sets. It is safe for
// concurrent use.
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Randomizer seeded from the runtime's random source
func New() *Randomizer {
	return NewSeeded(rand.Uint64(), rand.Uint64())
}

// NewSeeded returns a Randomizer with a reproducible sequence of draws
func NewSeeded(seed1, seed2 uint64) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// DrawCondition draws each dimension independently. Repeated calls may
// repeat any dimension.
func (r *Randomizer) DrawCondition() models.Condition {
	return models.Condition{
		LanguageModel: r.DrawLanguageModel(),
		UseCase:       pick(r, models.UseCases()),
		PromptStyle:   r.DrawPromptStyle(),
	}
}

// DrawLanguageModel draws a model uniformly
func (r *Randomizer) DrawLanguageModel() models.LanguageModel {
	return pick(r, models.LanguageModels())
}

// DrawPromptStyle draws a prompt style uniformly
func (r *Randomizer) DrawPromptStyle() models.PromptStyle {
	return pick(r, models.PromptStyles())
}

// DrawSequence returns a uniform random permutation of useCases. The input
// slice is not modified.
func (r *Randomizer) DrawSequence(useCases []models.UseCase) []models.UseCase {
	seq := make([]models.UseCase, len(useCases))
	copy(seq, useCases)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(len(seq), func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})
	return seq
}

// NextUncompletedTopic returns the first use case of order that is not in
// completed. The second result is false when every topic is done.
func NextUncompletedTopic(order, completed []models.UseCase) (models.UseCase, bool) {
	done := make(map[models.UseCase]struct{}, len(completed))
	for _, uc := range completed {
		done[uc] = struct{}{}
	}
	for _, uc := range order {
		if _, ok := done[uc]; !ok {
			return uc, true
		}
	}
	return "", false
}

func pick[T any](r *Randomizer, set []T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return set[r.rng.IntN(len(set))]
}
