package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Sher110106/othello/automatic"
	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/config"
	"github.com/Sher110106/othello/search"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

// Duration reads key as a Go duration; a bare number is taken as
// milliseconds.
func (c CmdOptions) Duration(key string) (time.Duration, bool, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, false, nil
	}
	if ms, err := strconv.Atoi(v[0]); err == nil {
		return time.Duration(ms) * time.Millisecond, true, nil
	}
	d, err := time.ParseDuration(v[0])
	return d, true, err
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.resetGame()
	return sc.show(cmd)
}

// load sets up a position from 64 cells. The cells may be split over
// several arguments, one per row for instance.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("usage: load <cells> [-side black|red]")
	}
	b, err := board.Parse(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	side := board.Black
	if s := cmd.options.String("side"); s != "" {
		side, err = board.ParseSide(s)
		if err != nil {
			return nil, err
		}
	}
	sc.setPosition(b, side)
	return sc.show(cmd)
}

func (sc *ShellController) turnText() string {
	if sc.onTurn == board.Empty {
		w := sc.board.Winner()
		if w == board.Empty {
			return "game over: draw"
		}
		return fmt.Sprintf("game over: %s wins %d-%d", w,
			sc.board.PieceCount(w), sc.board.PieceCount(w.Opponent()))
	}
	return fmt.Sprintf("%s to move", sc.onTurn)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	sb.WriteString(sc.board.ToDisplayText())
	sb.WriteString(sc.turnText())
	if len(sc.moves) > 0 {
		sb.WriteString("\nmoves: ")
		sb.WriteString(strings.Join(sc.moves, " "))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) listMoves(cmd *shellcmd) (*Response, error) {
	if sc.onTurn == board.Empty {
		return nil, errGameOver
	}
	moves := sc.board.LegalMoves(sc.onTurn)
	type scored struct {
		move  board.Move
		score int
	}
	rows := lo.Map(moves, func(m board.Move, _ int) scored {
		nb, _ := sc.board.Apply(sc.onTurn, m)
		return scored{m, sc.evaluator.Evaluate(nb, sc.onTurn)}
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d moves for %s (static eval after the move)\n", len(rows), sc.onTurn)
	for _, r := range rows {
		fmt.Fprintf(&sb, "  %-3s %6d\n", r.move, r.score)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("usage: play <move> [<move> ...]")
	}
	for _, a := range cmd.args {
		m, err := board.ParseMove(a)
		if err != nil {
			return nil, err
		}
		if err := sc.playMove(m); err != nil {
			return nil, err
		}
	}
	sc.lastResult = nil
	return sc.show(cmd)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	last := sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.moves = sc.moves[:len(sc.moves)-1]
	sc.board, sc.onTurn = last.board, last.onTurn
	sc.lastResult = nil
	return sc.show(cmd)
}

// engineFor returns the shell's engine, or a one-off engine when the
// command overrides the time budget or depth.
func (sc *ShellController) engineFor(cmd *shellcmd) (*search.Engine[board.Board], error) {
	budget, hasBudget, err := cmd.options.Duration("time")
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", 0)
	if err != nil {
		return nil, err
	}
	if !hasBudget && depth == 0 {
		return sc.engine, nil
	}
	opts, err := search.ConfigOptions(sc.config)
	if err != nil {
		return nil, err
	}
	if hasBudget {
		opts = append(opts, search.WithTimeBudget(budget))
	}
	if depth > 0 {
		opts = append(opts, search.WithMaxDepth(depth))
	}
	return search.NewEngine[board.Board](opts...), nil
}

func resultText(res search.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "best: %s  score: %d  depth: %d/%d  nodes: %d  time: %s",
		res.Move, res.Score, res.Depth, res.TargetDepth, res.Nodes,
		res.Elapsed.Round(time.Millisecond))
	if res.TimedOut {
		sb.WriteString("  (timed out)")
	}
	if res.Reason != search.ReasonSearched {
		fmt.Fprintf(&sb, "  [%s]", res.Reason)
	}
	if len(res.PV.Moves) > 0 {
		sb.WriteString("\npv: ")
		sb.WriteString(strings.Join(lo.Map(res.PV.Moves, func(m board.Move, _ int) string {
			return m.String()
		}), " "))
	}
	return sb.String()
}

// goSearch asks the engine for a move in the current position. With
// -play true the move is also made.
func (sc *ShellController) goSearch(cmd *shellcmd) (*Response, error) {
	if sc.onTurn == board.Empty {
		return nil, errGameOver
	}
	e, err := sc.engineFor(cmd)
	if err != nil {
		return nil, err
	}
	res := e.Search(sc.board, sc.onTurn)
	sc.lastResult = &res
	text := resultText(res)
	if cmd.options.Bool("play") {
		if err := sc.playMove(res.Move); err != nil {
			return nil, err
		}
		r, _ := sc.show(cmd)
		text += "\n" + r.message
	}
	return msg(text), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	side := sc.onTurn
	if side == board.Empty {
		side = board.Black
	}
	if s := cmd.options.String("side"); s != "" {
		var err error
		if side, err = board.ParseSide(s); err != nil {
			return nil, err
		}
	}
	t := sc.evaluator.Breakdown(sc.board, side)
	var sb strings.Builder
	fmt.Fprintf(&sb, "perspective: %s  phase: %s\n", side, t.Phase)
	fmt.Fprintf(&sb, "material:   %5d\n", t.Material)
	fmt.Fprintf(&sb, "mobility:   %5d\n", t.Mobility)
	fmt.Fprintf(&sb, "positional: %5d\n", t.Positional)
	fmt.Fprintf(&sb, "corners:    %5d\n", t.Corners)
	fmt.Fprintf(&sb, "stability:  %5d\n", t.Stability)
	fmt.Fprintf(&sb, "score:      %5d", t.Score)
	return msg(sb.String()), nil
}

// set changes a setting and rebuilds the engine. With -save true the
// settings are also written to the config file.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	keys := sc.config.AllKeys()
	sort.Strings(keys)
	if cmd.args == nil {
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-22s %v\n", k, sc.config.Get(k))
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	key := cmd.args[0]
	if !lo.Contains(keys, key) {
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s = %v", key, sc.config.Get(key))), nil
	}
	value := strings.Join(cmd.args[1:], " ")
	prev := sc.config.Get(key)
	sc.config.Set(key, value)
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(key, prev)
		return nil, err
	}
	if err := sc.initEngine(); err != nil {
		sc.config.Set(key, prev)
		return nil, err
	}
	if cmd.options.Bool("save") {
		if err := sc.config.Write(); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		return msg(fmt.Sprintf("set %s to %s and saved to file", key, value)), nil
	}
	return msg(fmt.Sprintf("set %s to %s", key, value)), nil
}

// autoplay runs a self-play batch with the current settings, optionally
// overridden per command, and prints the summary.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	cfg := sc.config.Clone()
	games := cfg.GetInt(config.ConfigGames)
	if cmd.args != nil {
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, fmt.Errorf("bad number of games %q: %w", cmd.args[0], err)
		}
		games = n
	}
	threads, err := cmd.options.IntDefault("threads", cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	if budget, ok, err := cmd.options.Duration("time"); err != nil {
		return nil, err
	} else if ok {
		cfg.Set(config.ConfigTimeBudget, budget)
	}
	if depth, err := cmd.options.IntDefault("depth", 0); err != nil {
		return nil, err
	} else if depth > 0 {
		cfg.Set(config.ConfigMaxDepth, depth)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := automatic.CompVsCompOptions{NumGames: games, Threads: threads}
	if path := cmd.options.String("seeds"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		opts.Seeds, err = automatic.ReadSeeds(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	if path := cmd.options.String("logfile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		opts.Log = f
	}
	ctx := context.Background()
	if path := cmd.options.String("db"); path != "" {
		store, err := automatic.OpenRecordStore(ctx, path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		opts.Store = store
	}

	records, err := automatic.PlayCompVComp(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	summary := automatic.Summarize(records)
	var sb strings.Builder
	sb.WriteString(summary.String())
	if err := summary.WriteHistogram(&sb); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
