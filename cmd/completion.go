package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	planFlags := map[string]complete.Predictor{
		"s":        predict.Files("*.json"),
		"w":        predict.Something,
		"account":  predict.Set{"auto", "taxable", "non-taxable"},
		"rounding": predict.Set{"fractional", "whole"},
	}
	with := func(flags map[string]complete.Predictor, more map[string]complete.Predictor) map[string]complete.Predictor {
		all := make(map[string]complete.Predictor, len(flags)+len(more))
		for k, v := range flags {
			all[k] = v
		}
		for k, v := range more {
			all[k] = v
		}
		return all
	}

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"plan": {Flags: with(planFlags, map[string]complete.Predictor{
				"format": predict.Set{"markdown", "raw", "html", "json"},
				"notify": predict.Nothing,
			})},
			"review": {Flags: planFlags, Args: predict.Something},
			"targets": {Flags: map[string]complete.Predictor{
				"format": predict.Set{"markdown", "raw", "yaml"},
			}},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Set{"plan", "targets", "snapshot", "taxes", "*"},
			},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*"),
			"v":      predict.Nothing,
		},
	}
}
