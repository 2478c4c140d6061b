// Package logon establishes an authenticated session over an already
// dialed transport. It owns no credentials storage and no server
// discovery; callers dial, logon authenticates and validates.
package logon

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/pkg/steamid"
)

// MethodAuthenticate is the wire method for the auth handshake.
const MethodAuthenticate = "Authentication.BeginAuthSession"

var (
	ErrMissingSteamID   = errors.New("logon: steam ID missing after login")
	ErrMissingSessionID = errors.New("logon: session ID not assigned")
)

// Caller is the minimal request surface logon needs from a transport;
// *wsconn.Conn satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, req, resp any) error
}

// Credentials for a credential login. Anonymous sessions pass none.
type Credentials struct {
	Account  string
	Password string
	// GuardCode is the optional two-factor code for accounts that
	// require one.
	GuardCode string
}

type authenticateRequest struct {
	Account   string `json:"account,omitempty"`
	Password  string `json:"password,omitempty"`
	GuardCode string `json:"guard_code,omitempty"`
	Anonymous bool   `json:"anonymous,omitempty"`
}

type authenticateResponse struct {
	SteamID     uint64 `json:"steamid"`
	SessionID   int32  `json:"session_id"`
	CellID      uint32 `json:"cell_id"`
	AccessToken string `json:"access_token,omitempty"`
	IPCountry   string `json:"ip_country,omitempty"`
}

// Session is an authenticated session. It is immutable after Logon
// returns.
type Session struct {
	steamID     steamid.SteamID
	sessionID   int32
	cellID      uint32
	accessToken string
	ipCountry   string
}

// Snapshot is a read-only copy of the session state, safe to hand out
// without exposing the session itself.
type Snapshot struct {
	SteamID     steamid.SteamID
	SessionID   int32
	CellID      uint32
	AccessToken string
	IPCountry   string
}

// Logon authenticates with credentials.
func Logon(ctx context.Context, caller Caller, creds Credentials, log *zap.Logger) (*Session, error) {
	return authenticate(ctx, caller, authenticateRequest{
		Account:   creds.Account,
		Password:  creds.Password,
		GuardCode: creds.GuardCode,
	}, log)
}

// Anonymous establishes an unauthenticated session, mostly useful for
// smoke tests and read-only operations.
func Anonymous(ctx context.Context, caller Caller, log *zap.Logger) (*Session, error) {
	return authenticate(ctx, caller, authenticateRequest{Anonymous: true}, log)
}

func authenticate(ctx context.Context, caller Caller, req authenticateRequest, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var resp authenticateResponse
	if err := caller.Call(ctx, MethodAuthenticate, &req, &resp); err != nil {
		return nil, fmt.Errorf("logon: %w", err)
	}

	s := &Session{
		steamID:     steamid.SteamID(resp.SteamID),
		sessionID:   resp.SessionID,
		cellID:      resp.CellID,
		accessToken: resp.AccessToken,
		ipCountry:   resp.IPCountry,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	log.Info("logon successful",
		zap.String("steam_id", s.steamID.Steam3()),
		zap.Bool("anonymous", req.Anonymous),
	)
	return s, nil
}

// validate enforces the session invariants; violations are fatal
// application errors, not retryable transport failures.
func (s *Session) validate() error {
	if !s.steamID.IsValid() {
		return ErrMissingSteamID
	}
	if s.sessionID == 0 {
		return ErrMissingSessionID
	}
	return nil
}

func (s *Session) SteamID() steamid.SteamID { return s.steamID }
func (s *Session) SessionID() int32         { return s.sessionID }
func (s *Session) CellID() uint32           { return s.cellID }

// Snapshot returns an immutable copy of the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SteamID:     s.steamID,
		SessionID:   s.sessionID,
		CellID:      s.cellID,
		AccessToken: s.accessToken,
		IPCountry:   s.ipCountry,
	}
}
