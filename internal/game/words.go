package game

import (
	"embed"
	"io/fs"
	"math/rand"
	"strings"
)

//go:embed words/en.txt
var wordsFS embed.FS

// DefaultWords loads the embedded drawing-word list.
func DefaultWords() []string {
	b, err := fs.ReadFile(wordsFS, "words/en.txt")
	if err != nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		w := strings.TrimSpace(strings.ToLower(line))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// pickWord draws uniformly at random, with replacement: the same word can
// come up again within one game.
func pickWord(words []string) string {
	return words[rand.Intn(len(words))]
}
