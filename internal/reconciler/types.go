package reconciler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scalectl/internal/scalelite"
)

// TargetState is the declared lifecycle target of a server.
type TargetState string

const (
	// TargetPresent asserts existence only; the state of an existing server
	// is left alone.
	TargetPresent TargetState = "present"

	// TargetAbsent removes the server.
	TargetAbsent TargetState = "absent"

	// TargetEnabled puts the server into rotation.
	TargetEnabled TargetState = "enabled"

	// TargetCordoned stops new meetings while letting running ones finish.
	TargetCordoned TargetState = "cordoned"

	// TargetDisabled takes the server out of rotation.
	TargetDisabled TargetState = "disabled"

	// TargetPanic ends all meetings on the server immediately.
	TargetPanic TargetState = "panic"
)

// TargetStates lists every accepted target in documentation order.
var TargetStates = []TargetState{
	TargetPresent,
	TargetAbsent,
	TargetEnabled,
	TargetCordoned,
	TargetDisabled,
	TargetPanic,
}

// ParseTargetState parses a target name. The empty string means present.
func ParseTargetState(s string) (TargetState, error) {
	if s == "" {
		return TargetPresent, nil
	}
	for _, t := range TargetStates {
		if string(t) == strings.ToLower(s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid state %q: must be one of %s", s, joinTargets())
}

func joinTargets() string {
	names := make([]string, len(TargetStates))
	for i, t := range TargetStates {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// transition maps a lifecycle target to the update verb that reaches it.
// Targets without a steady state (present, absent, panic) have none.
func (t TargetState) transition() (scalelite.Transition, bool) {
	switch t {
	case TargetEnabled:
		return scalelite.TransitionEnable, true
	case TargetDisabled:
		return scalelite.TransitionDisable, true
	case TargetCordoned:
		return scalelite.TransitionCordon, true
	default:
		return "", false
	}
}

// DesiredState is the declared target for one server.
type DesiredState struct {
	// URL is the server's BigBlueButton API URL. Its host is the identity.
	URL string `json:"url" yaml:"url"`

	// Target is the lifecycle target. Empty means present.
	Target TargetState `json:"state" yaml:"state"`

	// Secret is the server's API secret. Required when the server has to be
	// created; otherwise only used to correct drift.
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`

	// LoadMultiplier is the server's load weighting. Nil or zero means
	// unmanaged.
	LoadMultiplier *float64 `json:"load_multiplier,omitempty" yaml:"load_multiplier,omitempty"`
}

// target returns the target with the default applied.
func (d DesiredState) target() TargetState {
	if d.Target == "" {
		return TargetPresent
	}
	return d.Target
}

// loadMultiplier returns the managed multiplier, if any.
func (d DesiredState) loadMultiplier() (float64, bool) {
	if d.LoadMultiplier == nil || *d.LoadMultiplier == 0 {
		return 0, false
	}
	return *d.LoadMultiplier, true
}

// ActionKind tags the variant of an Action.
type ActionKind string

const (
	ActionNoOp                ActionKind = "none"
	ActionCreate              ActionKind = "create"
	ActionUpdate              ActionKind = "update"
	ActionDelete              ActionKind = "delete"
	ActionPanic               ActionKind = "panic"
	ActionPreconditionFailure ActionKind = "precondition-failure"
)

// Action is the outcome of Decide. Only the fields relevant to Kind are set.
type Action struct {
	Kind ActionKind

	// Spec is the addServer payload for ActionCreate.
	Spec *scalelite.ServerSpec

	// Patch is the updateServer payload for ActionUpdate.
	Patch scalelite.ServerPatch

	// Reason explains an ActionPreconditionFailure.
	Reason string
}

// Changes reports whether executing the action mutates the remote system.
func (a Action) Changes() bool {
	switch a.Kind {
	case ActionCreate, ActionUpdate, ActionDelete, ActionPanic:
		return true
	default:
		return false
	}
}

// Plan is a decided but not yet executed reconciliation.
type Plan struct {
	// Identity is the server id derived from the desired URL.
	Identity string

	// Desired is the declared state the plan was computed from.
	Desired DesiredState

	// Current is the remote record, nil when the server is not registered.
	Current *scalelite.Server

	// Action is what Apply will do.
	Action Action
}

// Result is the outcome of a reconciliation.
type Result struct {
	// Identity is the server id the reconciliation acted on.
	Identity string `json:"id" yaml:"id"`

	// Action is the kind of action that was decided.
	Action ActionKind `json:"action" yaml:"action"`

	// Changed reports whether the remote system was (or, in check mode,
	// would be) modified.
	Changed bool `json:"changed" yaml:"changed"`

	// Fields lists the fields sent in an update.
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`

	// CheckMode is set when no remote write was attempted on purpose.
	CheckMode bool `json:"check_mode,omitempty" yaml:"check_mode,omitempty"`

	// Response is the raw payload of the last remote write, nil when none
	// was issued.
	Response json.RawMessage `json:"response" yaml:"-"`
}

// ChangeOperation describes what happened to a watched file.
type ChangeOperation string

const (
	// OperationCreate indicates the file was created.
	OperationCreate ChangeOperation = "Create"

	// OperationUpdate indicates the file was modified.
	OperationUpdate ChangeOperation = "Update"

	// OperationDelete indicates the file was removed or renamed away.
	OperationDelete ChangeOperation = "Delete"
)

// ChangeEvent represents a detected change of a desired-state file.
type ChangeEvent struct {
	// FilePath is the absolute path of the file that changed.
	FilePath string

	// Operation describes what kind of change occurred.
	Operation ChangeOperation

	// Timestamp is when the change was detected.
	Timestamp time.Time
}
