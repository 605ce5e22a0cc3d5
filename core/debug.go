package core

import "github.com/rs/zerolog"

// DebugReducer wraps inner so every dispatched action is logged along with
// whether the step produced asynchronous work. It runs on the store loop,
// so wire it in only behind a debug flag.
func DebugReducer[S, A, E any](name string, inner Reducer[S, A, E], logger zerolog.Logger) Reducer[S, A, E] {
	return func(state *S, action A, env E) Effect[A] {
		eff := inner(state, action, env)
		logger.Debug().
			Str("reducer", name).
			Type("action_type", action).
			Interface("action", action).
			Int("effect_ops", len(eff.ops)).
			Msg("action reduced")
		return eff
	}
}
