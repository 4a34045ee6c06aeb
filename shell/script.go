package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/Sher110106/othello/config"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("othello_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// pushResponse pushes the command's message, or "ERROR: ..." on failure.
func pushResponse(L *lua.LState, name string, r *Response, err error) int {
	if err != nil {
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

// runLine runs name plus the rest of the line as a shell command.
func runLine(L *lua.LState, name, rest string) int {
	sc := getShell(L)
	cmd, err := extractFields(name + " " + rest)
	if err != nil {
		return pushResponse(L, name, nil, err)
	}
	r, err := sc.standardModeSwitch(cmd)
	return pushResponse(L, name, r, err)
}

func New(L *lua.LState) int {
	return runLine(L, "new", "")
}

func Load(L *lua.LState) int {
	sc := getShell(L)
	cmd := &shellcmd{
		cmd:     "load",
		args:    []string{L.CheckString(1)},
		options: CmdOptions{},
	}
	if side := L.OptString(2, ""); side != "" {
		cmd.options["side"] = []string{side}
	}
	r, err := sc.load(cmd)
	return pushResponse(L, "load", r, err)
}

func Play(L *lua.LState) int {
	return runLine(L, "play", L.CheckString(1))
}

func Go(L *lua.LState) int {
	return runLine(L, "go", L.OptString(1, ""))
}

func Eval(L *lua.LState) int {
	return runLine(L, "eval", L.OptString(1, ""))
}

func Set(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.set(&shellcmd{
		cmd:     "set",
		args:    []string{L.CheckString(1), L.CheckString(2)},
		options: CmdOptions{},
	})
	return pushResponse(L, "set", r, err)
}

func Board(L *lua.LState) int {
	L.Push(lua.LString(getShell(L).board.String()))
	return 1
}

func Side(L *lua.LState) int {
	L.Push(lua.LString(getShell(L).onTurn.String()))
	return 1
}

// Result returns the last search result as a JSON object, or null.
func Result(L *lua.LState) int {
	sc := getShell(L)
	var v lua.LValue = lua.LNil
	if res := sc.lastResult; res != nil {
		t := L.NewTable()
		t.RawSetString("move", lua.LString(res.Move.String()))
		t.RawSetString("score", lua.LNumber(res.Score))
		t.RawSetString("depth", lua.LNumber(res.Depth))
		t.RawSetString("target_depth", lua.LNumber(res.TargetDepth))
		t.RawSetString("nodes", lua.LNumber(res.Nodes))
		t.RawSetString("elapsed_ms", lua.LNumber(res.Elapsed.Milliseconds()))
		t.RawSetString("timed_out", lua.LBool(res.TimedOut))
		t.RawSetString("reason", lua.LString(res.Reason))
		pv := L.NewTable()
		for _, m := range res.PV.Moves {
			pv.Append(lua.LString(m.String()))
		}
		t.RawSetString("pv", pv)
		v = t
	}
	data, err := luajson.Encode(v)
	if err != nil {
		L.RaiseError("encoding result: %v", err)
		return 0
	}
	L.Push(lua.LString(data))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	if timeout := sc.config.GetDuration(config.ConfigScriptTimeout); timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		L.SetContext(ctx)
	}

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("othello_shell", lsc)
	L.SetGlobal("othello_new", L.NewFunction(New))
	L.SetGlobal("othello_load", L.NewFunction(Load))
	L.SetGlobal("othello_play", L.NewFunction(Play))
	L.SetGlobal("othello_go", L.NewFunction(Go))
	L.SetGlobal("othello_eval", L.NewFunction(Eval))
	L.SetGlobal("othello_set", L.NewFunction(Set))
	L.SetGlobal("othello_board", L.NewFunction(Board))
	L.SetGlobal("othello_side", L.NewFunction(Side))
	L.SetGlobal("othello_result", L.NewFunction(Result))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg(sc.turnText()), nil
}
