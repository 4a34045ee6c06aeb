package automatic

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"lukechampine.com/frand"
)

// Seed drives the random opening of one self-play game. Replaying a seed
// replays the game.
type Seed [32]byte

func (s Seed) String() string {
	return base64.RawURLEncoding.EncodeToString(s[:])
}

func (s Seed) rng() *frand.RNG {
	return frand.NewCustom(s[:], 1024, 12)
}

// ParseSeed decodes a seed written by Seed.String.
func ParseSeed(text string) (Seed, error) {
	var s Seed
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return s, fmt.Errorf("decoding seed: %w", err)
	}
	if len(decoded) != len(s) {
		return s, fmt.Errorf("seed is %d bytes, want %d", len(decoded), len(s))
	}
	copy(s[:], decoded)
	return s, nil
}

// GenerateSeeds draws n fresh seeds from system entropy.
func GenerateSeeds(n int) []Seed {
	seeds := make([]Seed, n)
	for i := range seeds {
		seeds[i] = frand.Entropy256()
	}
	return seeds
}

// WriteSeeds writes one seed per line, after a comment header.
func WriteSeeds(w io.Writer, seeds []Seed) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("# self-play seeds, one per game\n"); err != nil {
		return err
	}
	for _, s := range seeds {
		if _, err := bw.WriteString(s.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSeeds reads seeds written by WriteSeeds. Blank lines and lines
// starting with # are skipped.
func ReadSeeds(r io.Reader) ([]Seed, error) {
	var seeds []Seed
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s, err := ParseSeed(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		seeds = append(seeds, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading seeds: %w", err)
	}
	return seeds, nil
}
