package collection

import (
	"strings"
)

// Generation ids are fixed width base-62 counters. The alphabet is in ASCII
// order so comparing two ids as strings gives their temporal order.
const (
	generationIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	GenerationIDLength   = 11
)

var ZeroGenerationID = strings.Repeat("0", GenerationIDLength)

// NextGenerationID increments the least significant symbol of id, carrying
// over to the left.
func NextGenerationID(id string) string {

	b := []byte(id)
	for i := len(b) - 1; i >= 0; i-- {
		p := strings.IndexByte(generationIDAlphabet, b[i])
		if p < len(generationIDAlphabet)-1 {
			b[i] = generationIDAlphabet[p+1]
			return string(b)
		}
		b[i] = generationIDAlphabet[0]
	}

	panic("generation id overflow: " + id)
}

func IsValidGenerationID(id string) bool {

	if len(id) != GenerationIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		if strings.IndexByte(generationIDAlphabet, id[i]) < 0 {
			return false
		}
	}

	return true
}
