package reconciler

import (
	"context"
	"fmt"
	"strings"

	"scalectl/internal/scalelite"
	"scalectl/pkg/logging"
)

// ServerAPI is the subset of the Scalelite client the reconciler needs.
type ServerAPI interface {
	ListServers(ctx context.Context) ([]scalelite.Server, error)
	CreateServer(ctx context.Context, spec scalelite.ServerSpec) (*scalelite.Response, error)
	UpdateServer(ctx context.Context, id string, patch scalelite.ServerPatch) (*scalelite.Response, error)
	DeleteServer(ctx context.Context, id string) (*scalelite.Response, error)
	PanicServer(ctx context.Context, id string) (*scalelite.Response, error)
}

// Reconciler reconciles one server at a time against a ServerAPI.
type Reconciler struct {
	api ServerAPI

	// convergeAfterCreate follows a create with an update when the new
	// record still differs from the desired state.
	convergeAfterCreate bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithConvergeAfterCreate makes Apply follow a create with the update needed
// to reach the declared state, e.g. enabling a server created as disabled.
func WithConvergeAfterCreate() Option {
	return func(r *Reconciler) {
		r.convergeAfterCreate = true
	}
}

// New creates a Reconciler for the given API.
func New(api ServerAPI, opts ...Option) *Reconciler {
	r := &Reconciler{api: api}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan looks up the current record of the desired server and decides what
// to do. It never writes to the API.
func (r *Reconciler) Plan(ctx context.Context, desired DesiredState) (Plan, error) {
	if err := desired.Validate(); err != nil {
		return Plan{}, err
	}

	identity, err := IdentityFromURL(desired.URL)
	if err != nil {
		return Plan{}, err
	}

	servers, err := r.api.ListServers(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to list servers: %w", err)
	}

	current := scalelite.FindServer(servers, identity)
	action := Decide(desired, current)

	if current == nil {
		logging.Debug("Reconciler", "Server %s is not registered, target %s: %s", identity, desired.target(), action.Kind)
	} else {
		logging.Debug("Reconciler", "Server %s is %s, target %s: %s", identity, current.State, desired.target(), action.Kind)
	}

	return Plan{
		Identity: identity,
		Desired:  desired,
		Current:  current,
		Action:   action,
	}, nil
}

// Apply executes a plan with at most one remote write, or two when
// converging after a create.
func (r *Reconciler) Apply(ctx context.Context, plan Plan) (Result, error) {
	result := Result{
		Identity: plan.Identity,
		Action:   plan.Action.Kind,
	}

	var (
		resp *scalelite.Response
		err  error
	)

	switch plan.Action.Kind {
	case ActionNoOp:
		logging.Info("Reconciler", "Server %s is up to date", plan.Identity)
		return result, nil

	case ActionPreconditionFailure:
		return result, &PreconditionError{
			Identity: plan.Identity,
			Target:   plan.Desired.target(),
			Reason:   plan.Action.Reason,
		}

	case ActionCreate:
		logging.Info("Reconciler", "Registering server %s", plan.Identity)
		resp, err = r.api.CreateServer(ctx, *plan.Action.Spec)
		if err == nil && r.convergeAfterCreate {
			resp, result.Fields, err = r.converge(ctx, plan, resp)
		}

	case ActionUpdate:
		result.Fields = plan.Action.Patch.Fields()
		logging.Info("Reconciler", "Updating %s of server %s", strings.Join(result.Fields, ", "), plan.Identity)
		resp, err = r.api.UpdateServer(ctx, plan.Identity, plan.Action.Patch)

	case ActionDelete:
		logging.Info("Reconciler", "Deleting server %s", plan.Identity)
		resp, err = r.api.DeleteServer(ctx, plan.Identity)

	case ActionPanic:
		logging.Warn("Reconciler", "Panicking server %s", plan.Identity)
		resp, err = r.api.PanicServer(ctx, plan.Identity)

	default:
		return result, fmt.Errorf("unknown action %q", plan.Action.Kind)
	}

	if err != nil {
		return result, fmt.Errorf("failed to %s server %s: %w", plan.Action.Kind, plan.Identity, err)
	}

	result.Changed = true
	if resp != nil {
		result.Response = resp.Raw
	}
	return result, nil
}

// converge issues the update that brings a freshly created server to the
// declared state. The create response is returned unchanged when nothing
// is left to do.
func (r *Reconciler) converge(ctx context.Context, plan Plan, created *scalelite.Response) (*scalelite.Response, []string, error) {
	if created == nil || created.Server == nil {
		logging.Warn("Reconciler", "addServer response for %s carried no server record, skipping follow-up update", plan.Identity)
		return created, nil, nil
	}

	patch := DiffPatch(plan.Desired, *created.Server)
	if patch.IsEmpty() {
		return created, nil, nil
	}

	fields := patch.Fields()
	logging.Info("Reconciler", "Updating %s of new server %s", strings.Join(fields, ", "), plan.Identity)
	resp, err := r.api.UpdateServer(ctx, plan.Identity, patch)
	if err != nil {
		return nil, fields, fmt.Errorf("server was registered but the follow-up update failed: %w", err)
	}
	return resp, fields, nil
}

// Reconcile plans and, unless checkMode is set, applies. In check mode the
// result reports whether a change would be made and carries no response.
func (r *Reconciler) Reconcile(ctx context.Context, desired DesiredState, checkMode bool) (Result, error) {
	plan, err := r.Plan(ctx, desired)
	if err != nil {
		return Result{}, err
	}

	if !checkMode {
		return r.Apply(ctx, plan)
	}

	result := Result{
		Identity:  plan.Identity,
		Action:    plan.Action.Kind,
		Changed:   plan.Action.Changes(),
		CheckMode: true,
	}
	if plan.Action.Kind == ActionUpdate {
		result.Fields = plan.Action.Patch.Fields()
	}
	if plan.Action.Kind == ActionPreconditionFailure {
		return result, &PreconditionError{
			Identity: plan.Identity,
			Target:   desired.target(),
			Reason:   plan.Action.Reason,
		}
	}
	logging.Info("Reconciler", "Check mode: server %s would be %s", plan.Identity, describe(plan.Action.Kind))
	return result, nil
}

func describe(kind ActionKind) string {
	switch kind {
	case ActionCreate:
		return "created"
	case ActionUpdate:
		return "updated"
	case ActionDelete:
		return "deleted"
	case ActionPanic:
		return "panicked"
	default:
		return "left unchanged"
	}
}
