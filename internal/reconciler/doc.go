// Package reconciler brings one server registration in a Scalelite pool in
// line with its declared state.
//
// # Overview
//
// Reconciliation is split into two steps so that callers can ask what would
// happen without touching the remote system:
//
//   - Plan: list the registered servers, derive the server identity from its
//     API URL and run Decide against the matching record
//   - Apply: execute the planned Action with a single remote call
//
// Decide is a pure function from (DesiredState, current record) to an
// Action. The Action is one of NoOp, Create, Update (with a sparse patch),
// Delete, Panic or PreconditionFailure.
//
// # Decision table
//
//	record   target                       action
//	absent   absent                       NoOp
//	absent   cordoned, panic              PreconditionFailure
//	absent   present, enabled, disabled   Create (secret required)
//	exists   absent                       Delete
//	exists   panic                        Panic
//	exists   present, enabled, cordoned,  Update when DiffPatch is not
//	         disabled                     empty, NoOp otherwise
//
// The "present" target never produces a state transition: it only asserts
// that the server exists, so an existing record keeps its enablement and
// only secret or load multiplier drift is corrected.
//
// A Create issues only the addServer call. The new server starts in the
// remote default state (disabled), even for the "enabled" target, unless
// the reconciler is built with WithConvergeAfterCreate.
//
// # Usage
//
//	r := reconciler.New(client)
//	result, err := r.Reconcile(ctx, desired, checkMode)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Changed)
//
// # Watching
//
// FileWatcher reports changes of a desired-state file so that a caller can
// re-run the whole reconciliation. Runs are never overlapped.
package reconciler
