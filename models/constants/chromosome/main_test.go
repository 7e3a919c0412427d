package chromosome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidHumanChromosome(t *testing.T) {
	for _, valid := range []string{"1", "17", "22", "X", "y", "MT", "chr17", "chrX", "CHRM"} {
		assert.True(t, IsValidHumanChromosome(valid), valid)
	}
	for _, invalid := range []string{"", "0", "23", "-1", "chr", "chrZ", "Mouse", "1.5"} {
		assert.False(t, IsValidHumanChromosome(invalid), invalid)
	}
}

func TestValidListOfHumanChromosomes(t *testing.T) {
	chroms := ValidListOfHumanChromosomes()

	assert.Len(t, chroms, 25)
	for _, c := range chroms {
		assert.True(t, IsValidHumanChromosome(c), c)
	}
}
