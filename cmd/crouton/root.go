package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set by the release build.
var version = "dev"

type rootOptions struct {
	configFile string
	root       string
	verbose    bool

	v   *viper.Viper
	log *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "crouton",
		Short: "Schema-driven CRUD scaffolding generator",
		Long: `crouton reads JSON field schemas plus a project config and generates,
per collection, the SQL table, the input validator, the REST handlers
and the view components into a conventional layer directory tree.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "crouton.yaml", "project config file")
	pf.StringVar(&opts.root, "root", "layers", "output directory holding the layer tree")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose diagnostics")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newConfigCmd(opts),
		newRollbackCmd(opts),
		newInitCmd(opts),
		newInstallCmd(opts),
	)
	return cmd
}

// setup binds flags to the environment (CROUTON_CONFIG, CROUTON_ROOT)
// and builds the logger.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	o.v.SetEnvPrefix("CROUTON")
	o.v.AutomaticEnv()
	for _, name := range []string{"config", "root"} {
		if err := o.v.BindPFlag(name, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	o.configFile = o.v.GetString("config")
	o.root = o.v.GetString("root")

	if o.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		o.log = log.Sugar()
	} else {
		o.log = zap.NewNop().Sugar()
	}
	return nil
}
