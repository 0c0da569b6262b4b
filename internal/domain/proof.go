package domain

import "errors"

// ProofState is the position of a challenge in its lifecycle.
type ProofState string

const (
	ProofIdle       ProofState = "idle"
	ProofAwaiting   ProofState = "awaiting"
	ProofMatched    ProofState = "matched"
	ProofMismatched ProofState = "mismatched"
	ProofClosed     ProofState = "closed"
)

var (
	ErrProofNotOpen     = errors.New("proof challenge not awaiting a scan")
	ErrProofAlreadyOpen = errors.New("proof challenge already open")
)

// ProofChallenge gates badge issuance on scanning the token bound to the
// badge's location. A mismatch reports the failure but keeps the challenge
// open so the user can rescan without restarting; Close is valid from any
// state and discards the expected token.
//
// The comparison is exact string equality. A token printed at one location
// never validates another.
type ProofChallenge struct {
	state    ProofState
	expected string
}

func NewProofChallenge() *ProofChallenge {
	return &ProofChallenge{state: ProofIdle}
}

func (p *ProofChallenge) State() ProofState {
	return p.state
}

// Open binds the expected token and starts awaiting scans.
func (p *ProofChallenge) Open(expectedToken string) error {
	if p.state != ProofIdle && p.state != ProofClosed {
		return ErrProofAlreadyOpen
	}
	p.expected = expectedToken
	p.state = ProofAwaiting
	return nil
}

// Submit compares a scanned token against the bound one. On a match the
// caller may proceed with issuance; on a mismatch the challenge stays open
// for further submissions.
func (p *ProofChallenge) Submit(observedToken string) error {
	switch p.state {
	case ProofAwaiting, ProofMismatched:
	default:
		return ErrProofNotOpen
	}
	if observedToken != p.expected {
		p.state = ProofMismatched
		return ErrQRMismatch
	}
	p.state = ProofMatched
	return nil
}

// Close cancels the challenge. Safe to call at any state; it has no effect on
// any grant already issued.
func (p *ProofChallenge) Close() {
	p.expected = ""
	p.state = ProofClosed
}
