package sentinel

import "errors"

// Infrastructure facts returned by stores and clients, optionally wrapped.
// Services translate them into pkg/domain-errors codes; handlers never see them.
//
//   - ErrNotFound: no row/key for the lookup
//   - ErrConflict: a unique constraint (email) would be violated
//   - ErrExpired: a token or cached value is past its lifetime
//   - ErrUnavailable: a backing service (postgres, redis, kafka) cannot be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
