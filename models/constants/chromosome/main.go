package chromosome

import (
	"fmt"
	"strconv"
	"strings"
)

func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 23; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X")
	humChroms = append(humChroms, "Y")
	humChroms = append(humChroms, "MT")
	return humChroms
}

// Normalize drops a leading "chr" so "chr17" and "17" compare equal.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 3 && strings.EqualFold(text[:3], "chr") {
		return text[3:]
	}
	return text
}

func IsValidHumanChromosome(text string) bool {
	text = Normalize(text)

	// Check if number can be represented as an int as is non-zero
	chromNumber, err := strconv.Atoi(text)
	if err == nil {
		// It can..
		// Check if it in range 1-22
		return chromNumber > 0 && chromNumber < 23
	}

	// No it can't..
	// Check if it is an X, Y or M (MT)
	switch strings.ToUpper(text) {
	case "X", "Y", "M", "MT":
		return true
	}
	return false
}
