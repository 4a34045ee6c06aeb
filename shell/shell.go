// Package shell is an interactive front end to the engine: set up or play
// through a position, ask the engine for a move, inspect its evaluation
// and run self-play batches or Lua scripts.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/Sher110106/othello/board"
	"github.com/Sher110106/othello/config"
	"github.com/Sher110106/othello/eval"
	"github.com/Sher110106/othello/search"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errGameOver          = errors.New("the game is over")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a command line into the command, its positional
// arguments and its -key value options. Quoting follows POSIX shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		// a row such as "--------" is part of a position, not an option
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f) && !board.IsCellText(f) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			cmd.options[key] = append(cmd.options[key], fields[i+1])
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ShellController holds the position being studied and the engine that
// analyzes it.
type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	board   board.Board
	onTurn  board.Side
	history []snapshot
	moves   []string

	engine     *search.Engine[board.Board]
	evaluator  eval.Evaluator
	lastResult *search.Result
}

type snapshot struct {
	board  board.Board
	onTurn board.Side
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up a readline-backed shell at the starting
// position.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mothello>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigShellHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc, err := newController(cfg, l.Stderr())
	if err != nil {
		l.Close()
		return nil, err
	}
	sc.l = l
	return sc, nil
}

// newController builds a shell without a terminal; output goes to w.
func newController(cfg *config.Config, w io.Writer) (*ShellController, error) {
	sc := &ShellController{out: w, config: cfg}
	if err := sc.initEngine(); err != nil {
		return nil, err
	}
	sc.resetGame()
	return sc, nil
}

func (sc *ShellController) initEngine() error {
	opts, err := search.ConfigOptions(sc.config)
	if err != nil {
		return err
	}
	sc.engine = search.NewEngine[board.Board](opts...)
	sc.evaluator = eval.Evaluator{ExactCorners: sc.config.GetBool(config.ConfigExactCorners)}
	return nil
}

func (sc *ShellController) resetGame() {
	sc.setPosition(board.NewBoard(), board.Black)
}

func (sc *ShellController) setPosition(b board.Board, side board.Side) {
	sc.board = b
	sc.onTurn = board.MoverFor(b, side)
	sc.history = nil
	sc.moves = nil
	sc.lastResult = nil
}

// playMove applies m for the side on turn and advances the turn, skipping
// a side that has to pass.
func (sc *ShellController) playMove(m board.Move) error {
	if sc.onTurn == board.Empty {
		return errGameOver
	}
	nb, err := sc.board.Apply(sc.onTurn, m)
	if err != nil {
		return err
	}
	sc.history = append(sc.history, snapshot{sc.board, sc.onTurn})
	sc.moves = append(sc.moves, m.String())
	sc.board = nb
	sc.onTurn = board.MoverFor(nb, sc.onTurn.Opponent())
	return nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) standardModeSwitch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "moves":
		return sc.listMoves(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "go":
		return sc.goSearch(cmd)
	case "eval":
		return sc.eval(cmd)
	case "set":
		return sc.set(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
	return nil, fmt.Errorf("unknown command %q; try help", cmd.cmd)
}

// Execute runs a single command line and prints its result. It reports
// whether the line asked the shell to exit.
func (sc *ShellController) Execute(line string) bool {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return false
	}
	if err != nil {
		sc.showError(err)
		return false
	}
	if cmd.cmd == "exit" || cmd.cmd == "quit" {
		return true
	}
	resp, err := sc.standardModeSwitch(cmd)
	if err != nil {
		sc.showError(err)
		return false
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return false
}

// Loop reads commands until exit, EOF or an interrupt on an empty line,
// then signals sig.
func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if sc.Execute(strings.TrimSpace(line)) {
			break
		}
	}
	log.Debug().Msg("exiting-readline-loop")
	sig <- syscall.SIGINT
}
