package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// LoggedSource wraps a Source and logs every draw at debug level.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource creates a LoggedSource drawing from src and logging to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the bound and result.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("rng draw",
		zap.String("method", "intn"),
		zap.Int("n", n),
		zap.Int("result", v),
	)
	return v
}

// Float64 draws from the wrapped Source and logs the result.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("rng draw",
		zap.String("method", "float64"),
		zap.Float64("result", v),
	)
	return v
}

// MarshalBinary delegates to the wrapped Source.
//
// Postcondition: returns ErrNotRestorable if the wrapped Source is not Restorable.
func (l *LoggedSource) MarshalBinary() ([]byte, error) {
	r, ok := l.src.(Restorable)
	if !ok {
		return nil, fmt.Errorf("marshal %T: %w", l.src, ErrNotRestorable)
	}
	return r.MarshalBinary()
}

// UnmarshalBinary delegates to the wrapped Source.
//
// Postcondition: returns ErrNotRestorable if the wrapped Source is not Restorable.
func (l *LoggedSource) UnmarshalBinary(data []byte) error {
	r, ok := l.src.(Restorable)
	if !ok {
		return fmt.Errorf("unmarshal %T: %w", l.src, ErrNotRestorable)
	}
	return r.UnmarshalBinary(data)
}
