package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

var (
	// movesTotal counts move requests by result: "applied" or "rejected"
	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_moves_total",
		Help: "Move requests by result",
	}, []string{"result"})

	// gamesFinishedTotal counts moves that ended a game, by outcome: "x", "o" or "draw"
	gamesFinishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tictactoe_games_finished_total",
		Help: "Finished games by outcome",
	}, []string{"outcome"})

	historyRewritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tictactoe_history_rewrites_total",
		Help: "Moves that discarded recorded future moves",
	})

	sessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tictactoe_sessions_created_total",
		Help: "Sessions created",
	})
)

func outcomeLabel(o domain.Outcome) string {
	switch o := o.(type) {
	case domain.Winner:
		if o.Mark == domain.X {
			return "x"
		}
		return "o"
	case domain.Draw:
		return "draw"
	default:
		return ""
	}
}
