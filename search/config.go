package search

import (
	"github.com/Sher110106/othello/config"
	"github.com/Sher110106/othello/eval"
	"github.com/Sher110106/othello/zobrist"
)

// ConfigOptions translates engine settings from cfg into Options.
func ConfigOptions(cfg *config.Config) ([]Option, error) {
	mode, err := zobrist.ParseMode(cfg.GetString(config.ConfigHashMode))
	if err != nil {
		return nil, err
	}
	ev := eval.Evaluator{ExactCorners: cfg.GetBool(config.ConfigExactCorners)}
	return []Option{
		WithTimeBudget(cfg.GetDuration(config.ConfigTimeBudget)),
		WithMaxDepth(cfg.GetInt(config.ConfigMaxDepth)),
		WithHasher(zobrist.New(mode)),
		WithEvaluator(ev.Evaluate),
		WithTableMemory(cfg.GetFloat64(config.ConfigTableMemory)),
	}, nil
}
