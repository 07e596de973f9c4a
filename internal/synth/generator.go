package synth

import (
	"math"
	"math/rand"

	"attribgraph/pkg/models"
)

// Defaults for incident synthesis.
const (
	DefaultMinSize = 10
	DefaultMaxSize = 50

	fracAttackPatterns = 0.5
	fracTools          = 0.2
	fracMalwares       = 0.2
	fracOthers         = 0.1
)

// Generator synthesizes plausible incidents from an intrusion-set profile.
// Each generated incident is a bag of semantic-id tokens usable as one
// training example.
type Generator struct {
	minSize int
	maxSize int
	sizes   *sizeSampler
	rng     *rand.Rand
}

// NewGenerator creates a generator with default size bounds.
func NewGenerator(rng *rand.Rand) (*Generator, error) {
	return NewGeneratorWithBounds(rng, DefaultMinSize, DefaultMaxSize)
}

// NewGeneratorWithBounds creates a generator drawing sizes in [minSize, maxSize].
func NewGeneratorWithBounds(rng *rand.Rand, minSize, maxSize int) (*Generator, error) {
	sizes, err := newSizeSampler(minSize, maxSize)
	if err != nil {
		return nil, err
	}
	return &Generator{minSize: minSize, maxSize: maxSize, sizes: sizes, rng: rng}, nil
}

// Generate produces one incident for the profile. The realized token count
// never exceeds the profile's distinct entity total; an empty profile yields
// an empty sequence.
func (g *Generator) Generate(source *models.IntrusionSet) []string {
	available := source.TotalEntities()
	sizeCap := available
	if sizeCap < g.minSize {
		sizeCap = g.minSize
	}

	size := g.sizes.Draw(g.rng)
	if size > sizeCap {
		size = sizeCap
	}
	if available == 0 {
		return nil
	}

	content := make([]string, 0, size)
	content = append(content, g.sampleWithReplacement(source.AttackPatterns, size, fracAttackPatterns)...)
	content = append(content, g.sampleWithReplacement(source.Tools, size, fracTools)...)
	content = append(content, g.sampleWithReplacement(source.Malwares, size, fracMalwares)...)
	content = append(content, g.sampleWithoutReplacement(source.Others(), size, fracOthers)...)
	return content
}

// sampleWithReplacement draws ceil(size*frac) entities with replacement and
// deduplicates before extracting semantic ids. The realized count may fall
// below the share: replacement plus dedup skews the bag toward entities that
// keep getting re-picked.
func (g *Generator) sampleWithReplacement(source []models.Entity, size int, frac float64) []string {
	if len(source) == 0 {
		return nil
	}
	share := int(math.Ceil(float64(size) * frac))
	seen := make(map[string]struct{}, share)
	result := make([]string, 0, share)
	for i := 0; i < share; i++ {
		e := source[g.rng.Intn(len(source))]
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		result = append(result, e.SemanticID)
	}
	return result
}

// sampleWithoutReplacement draws min(len(source), ceil(size*frac)) distinct
// entities via a partial Fisher-Yates shuffle.
func (g *Generator) sampleWithoutReplacement(source []models.Entity, size int, frac float64) []string {
	if len(source) == 0 {
		return nil
	}
	share := int(math.Ceil(float64(size) * frac))
	if share > len(source) {
		share = len(source)
	}

	indices := make([]int, len(source))
	for i := range indices {
		indices[i] = i
	}
	result := make([]string, 0, share)
	for i := 0; i < share; i++ {
		j := i + g.rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		result = append(result, source[indices[i]].SemanticID)
	}
	return result
}
