package reconciler

import (
	"fmt"
	"net/url"
	"strings"

	"scalectl/internal/scalelite"
)

// IdentityFromURL derives the server id from its API URL: the lower-cased
// host name without port.
func IdentityFromURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", &ValidationError{Field: "server url", Message: err.Error()}
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", &ValidationError{Field: "server url", Message: fmt.Sprintf("%q has no host", rawURL)}
	}
	return host, nil
}

// Validate checks the desired state without contacting the API.
func (d DesiredState) Validate() error {
	if d.URL == "" {
		return &ValidationError{Field: "server url", Message: "is required"}
	}
	if _, err := IdentityFromURL(d.URL); err != nil {
		return err
	}
	if _, err := ParseTargetState(string(d.Target)); err != nil {
		return &ValidationError{Field: "state", Message: err.Error()}
	}
	if d.LoadMultiplier != nil && *d.LoadMultiplier < 0 {
		return &ValidationError{Field: "load multiplier", Message: "must be positive"}
	}
	return nil
}

// Decide computes the single action that moves current towards desired.
// current is nil when the server is not registered. Decide performs no I/O.
func Decide(desired DesiredState, current *scalelite.Server) Action {
	target := desired.target()

	if current == nil {
		switch target {
		case TargetAbsent:
			return Action{Kind: ActionNoOp}
		case TargetCordoned, TargetPanic:
			return Action{
				Kind:   ActionPreconditionFailure,
				Reason: "the server does not exist",
			}
		}

		if desired.Secret == "" {
			return Action{
				Kind:   ActionPreconditionFailure,
				Reason: "a secret is required to register a new server",
			}
		}

		spec := &scalelite.ServerSpec{
			URL:    desired.URL,
			Secret: desired.Secret,
		}
		if lm, ok := desired.loadMultiplier(); ok {
			spec.LoadMultiplier = &lm
		}
		return Action{Kind: ActionCreate, Spec: spec}
	}

	switch target {
	case TargetAbsent:
		return Action{Kind: ActionDelete}
	case TargetPanic:
		return Action{Kind: ActionPanic}
	}

	patch := DiffPatch(desired, *current)
	if patch.IsEmpty() {
		return Action{Kind: ActionNoOp}
	}
	return Action{Kind: ActionUpdate, Patch: patch}
}

// DiffPatch returns the fields of current that differ from desired.
//
// The state field is only set for enabled, disabled and cordoned targets
// that differ from the current state. The secret is only set when a
// non-empty secret differs, and the load multiplier only when a non-zero
// multiplier differs in its string form.
func DiffPatch(desired DesiredState, current scalelite.Server) scalelite.ServerPatch {
	var patch scalelite.ServerPatch

	target := desired.target()
	if verb, ok := target.transition(); ok && string(target) != string(current.State) {
		patch.State = &verb
	}

	if desired.Secret != "" && desired.Secret != current.Secret {
		secret := desired.Secret
		patch.Secret = &secret
	}

	if lm, ok := desired.loadMultiplier(); ok && scalelite.FormatMultiplier(lm) != current.LoadMultiplier.String() {
		patch.LoadMultiplier = &lm
	}

	return patch
}
