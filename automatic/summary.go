package automatic

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/Sher110106/othello/board"
)

const histogramBins = 10

// Summary aggregates a batch of self-play games. Margins are Black minus
// Red.
type Summary struct {
	Games          int     `yaml:"games"`
	DistinctGames  int     `yaml:"distinct-games"`
	BlackWins      int     `yaml:"black-wins"`
	RedWins        int     `yaml:"red-wins"`
	Draws          int     `yaml:"draws"`
	MeanMargin     float64 `yaml:"mean-margin"`
	StdDevMargin   float64 `yaml:"stddev-margin"`
	MeanPlies      float64 `yaml:"mean-plies"`
	MeanNodes      float64 `yaml:"mean-nodes"`
	MeanGameTimeMS float64 `yaml:"mean-game-time-ms"`

	margins []float64
}

func Summarize(games []GameRecord) Summary {
	s := Summary{Games: len(games)}
	if len(games) == 0 {
		return s
	}
	s.DistinctGames = len(lo.UniqBy(games, func(g GameRecord) uint64 { return g.Fingerprint }))
	s.BlackWins = lo.CountBy(games, func(g GameRecord) bool { return g.Winner == board.Black })
	s.RedWins = lo.CountBy(games, func(g GameRecord) bool { return g.Winner == board.Red })
	s.Draws = s.Games - s.BlackWins - s.RedWins

	s.margins = lo.Map(games, func(g GameRecord, _ int) float64 { return float64(g.Margin()) })
	if len(games) > 1 {
		s.MeanMargin, s.StdDevMargin = stat.MeanStdDev(s.margins, nil)
	} else {
		s.MeanMargin = s.margins[0]
	}
	s.MeanPlies = stat.Mean(lo.Map(games, func(g GameRecord, _ int) float64 { return float64(g.Plies) }), nil)
	s.MeanNodes = stat.Mean(lo.Map(games, func(g GameRecord, _ int) float64 { return float64(g.Nodes) }), nil)
	s.MeanGameTimeMS = stat.Mean(lo.Map(games, func(g GameRecord, _ int) float64 {
		return float64(g.Duration.Milliseconds())
	}), nil)
	return s
}

func (s Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteHistogram draws the distribution of disc margins.
func (s Summary) WriteHistogram(w io.Writer) error {
	if len(s.margins) == 0 {
		_, err := io.WriteString(w, "no games\n")
		return err
	}
	return histogram.Fprint(w, histogram.Hist(histogramBins, s.margins), histogram.Linear(40))
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "games: %d (distinct %d)\n", s.Games, s.DistinctGames)
	fmt.Fprintf(&sb, "black wins: %d  red wins: %d  draws: %d\n", s.BlackWins, s.RedWins, s.Draws)
	fmt.Fprintf(&sb, "margin (black-red): mean %.2f stddev %.2f\n", s.MeanMargin, s.StdDevMargin)
	fmt.Fprintf(&sb, "mean plies: %.1f  mean nodes: %.0f  mean time: %.0fms\n",
		s.MeanPlies, s.MeanNodes, s.MeanGameTimeMS)
	return sb.String()
}
