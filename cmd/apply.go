package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"scalectl/internal/cli"
	"scalectl/internal/config"
	"scalectl/internal/reconciler"
)

// applyOptions holds the flags of the apply and watch commands.
type applyOptions struct {
	cli.CommandFlags

	file           string
	serverURL      string
	state          string
	secret         string
	loadMultiplier float64
	check          bool
	converge       bool
}

func (o *applyOptions) register(cmd *cobra.Command) {
	cli.RegisterCommonFlags(cmd, &o.CommandFlags)

	flags := cmd.Flags()
	flags.StringVarP(&o.file, "file", "f", "", "Desired-state YAML file, rendered as a template with sprig functions")
	flags.StringVar(&o.serverURL, "server-url", "", "API URL of the BigBlueButton server, e.g. https://bbb1.example.org/bigbluebutton/api")
	flags.StringVar(&o.state, "state", config.DefaultState, "Desired state: present, absent, enabled, disabled, cordoned or panic")
	flags.StringVar(&o.secret, "secret", "", "Shared secret of the BigBlueButton server (prefer the desired-state file)")
	flags.Float64Var(&o.loadMultiplier, "load-multiplier", 0, "Load multiplier of the server; 0 leaves the registered value alone")
	flags.BoolVar(&o.check, "check", false, "Report what would change without changing anything")
	flags.BoolVar(&o.converge, "converge", false, "After registering a server, also apply the declared state in the same run")
}

// overrides returns every setting given on the command line.
func (o *applyOptions) overrides(cmd *cobra.Command) config.Overrides {
	ov := o.CommandFlags.Overrides(cmd)
	flags := cmd.Flags()
	if flags.Changed("server-url") {
		ov.ServerURL = &o.serverURL
	}
	if flags.Changed("state") {
		ov.State = &o.state
	}
	if flags.Changed("secret") {
		ov.Secret = &o.secret
	}
	if flags.Changed("load-multiplier") {
		ov.LoadMultiplier = &o.loadMultiplier
	}
	return ov
}

// reconcileOnce loads the configuration afresh and runs one reconciliation.
func (o *applyOptions) reconcileOnce(ctx context.Context, cmd *cobra.Command) (reconciler.Result, error) {
	cfg, err := loadConfig(o.file, o.overrides(cmd))
	if err != nil {
		return reconciler.Result{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return reconciler.Result{}, err
	}

	desired, err := cfg.Server.DesiredState()
	if err != nil {
		return reconciler.Result{}, err
	}

	client, err := newClient(cfg.API)
	if err != nil {
		return reconciler.Result{}, err
	}

	var opts []reconciler.Option
	if o.converge {
		opts = append(opts, reconciler.WithConvergeAfterCreate())
	}
	r := reconciler.New(client, opts...)

	progress := o.Progress(cmd, "Reconciling "+desired.URL+"...")
	result, err := r.Reconcile(ctx, desired, o.check)
	if err != nil {
		progress.Fail("Reconciliation failed")
		return result, err
	}
	progress.Stop()
	return result, nil
}

func newApplyCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile a server registration with its desired state",
		Long: `Reconcile the Scalelite registration of one BigBlueButton server with its
desired state, making at most one change.

The desired state comes from flags, a desired-state file (--file), or both,
flags taking precedence. The API location and secret can also be given with
the SCALECTL_API_URL and SCALECTL_API_SECRET environment variables.

States:
  present    registered, enablement left alone
  absent     not registered
  enabled    registered and accepting meetings
  disabled   registered, not accepting meetings
  cordoned   registered, running meetings continue, no new ones
  panic      registered, disabled and all its meetings cleared

A newly registered server starts out in the API's default state. Run apply
again, or pass --converge, to reach enabled, disabled or cordoned.

Exit codes:
  0  success
  1  API or network error
  2  the desired state cannot be reached (e.g. cordoning an unknown server)
  3  invalid configuration`,
		Example: `  # Register a server and enable it
  scalectl apply --server-url https://bbb1.example.org/bigbluebutton/api \
    --secret "$BBB1_SECRET" --state enabled --converge

  # Preview the changes of a desired-state file
  scalectl apply -f bbb1.yaml --check -o yaml`,
		Args: cobra.NoArgs,
		// Errors are printed once by Execute, without the usage text.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			opts.Setup(cmd)

			result, err := opts.reconcileOnce(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return opts.Printer(cmd).PrintResult(result)
		},
	}

	opts.register(cmd)
	return cmd
}
