// Package dashboard
package dashboard

// Phase is the controller lifecycle: Uninitialized, Bootstrapping, Ready, then Ready and
// Submitting alternating for every submit.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseBootstrapping
	PhaseReady
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
