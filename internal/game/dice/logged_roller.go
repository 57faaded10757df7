package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged pool rolls.
// All pool rolls are logged at debug level with pool, difficulty, faces and
// classification.
type Roller struct {
	src     Source
	logger  *zap.Logger
	observe func(PoolResult)
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider so that resolvers which
// need raw draws share the same stream as pool rolls.
func (r *Roller) Source() Source {
	return r.src
}

// Observe registers fn to receive every pool result after it is logged.
// It must be called before the roller is shared.
func (r *Roller) Observe(fn func(PoolResult)) {
	r.observe = fn
}

// RollPool rolls a pool against difficulty and logs the result at debug level.
//
// Precondition: difficulty in [MinDifficulty, MaxDifficulty].
func (r *Roller) RollPool(poolSize, difficulty int) PoolResult {
	result := RollPool(r.src, poolSize, difficulty)
	r.logger.Debug("pool roll",
		zap.Int("pool", result.Pool),
		zap.Int("difficulty", result.Difficulty),
		zap.Ints("faces", result.Faces),
		zap.Int("successes", result.Successes),
		zap.Bool("botch", result.IsBotch),
		zap.Bool("critical", result.IsCritical),
	)
	if r.observe != nil {
		r.observe(result)
	}
	return result
}
