// Package idempotency runs an operation at most once per key at a time, using
// a redis key that moves from in_progress to completed or failed.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid state")
)

type State string

const (
	// StateNone means the caller now holds the key.
	StateNone       State = ""
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

func (s State) String() string { return string(s) }

func (s State) err() error {
	switch s {
	case StateNone:
		return nil
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	default:
		return fmt.Errorf("%w: %q", ErrInvalidState, string(s))
	}
}

type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const keyPrefix = "idempotency:"

// acquireScript claims KEYS[1] for ARGV[2] milliseconds, or returns the state
// already stored there.
var acquireScript = redis.NewScript(`
if redis.call("SET", KEYS[1], ARGV[1], "NX", "PX", ARGV[2]) then
	return ""
end
return redis.call("GET", KEYS[1])
`)

type StateTracker struct {
	client *redis.Client
}

func New(client *redis.Client) *StateTracker {
	return &StateTracker{client: client}
}

type Option func(*execOptions)

type execOptions struct {
	lockDuration   time.Duration
	stateTTL       time.Duration
	releaseOnError bool
}

// WithLockDuration bounds how long an unfinished run keeps the key. Default 1m.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long completed or failed is remembered. Default 1m.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// WithReleaseOnError deletes the key when fn fails instead of marking it
// failed, so the caller may try again right away.
func WithReleaseOnError() Option {
	return func(o *execOptions) { o.releaseOnError = true }
}

// Acquire claims key for lockDuration. StateNone means the caller holds it;
// any other state is what an earlier caller left behind.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	ms := max(lockDuration.Milliseconds(), 1)

	got, err := acquireScript.Run(ctx, s.client, []string{keyPrefix + key}, StateInProgress.String(), ms).Text()
	if err != nil {
		return "", err
	}

	return State(got), nil
}

// Exec runs fn when key is free. Otherwise it returns the error matching the
// stored state without calling fn.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: time.Minute, stateTTL: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = time.Minute
	}
	if o.stateTTL <= 0 {
		o.stateTTL = time.Minute
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}
	if err := state.err(); err != nil {
		return err
	}

	fk := keyPrefix + key
	runErr := fn(ctx)

	var settleErr error
	switch {
	case runErr == nil:
		settleErr = s.client.Set(ctx, fk, StateCompleted.String(), o.stateTTL).Err()
	case o.releaseOnError:
		settleErr = s.client.Del(ctx, fk).Err()
	default:
		settleErr = s.client.Set(ctx, fk, StateFailed.String(), o.stateTTL).Err()
	}

	if runErr != nil {
		return errors.Join(runErr, settleErr)
	}
	return settleErr
}
