package service

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/utils"
)

type Options struct {
	ConfigPath string
	ClusterID  int64
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
	flagSet.Int64Var(&o.ClusterID, "cluster", 1, "cluster id used for id generation")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "knowledge base chat service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	if err := utils.SetupIDWorker(opts.ClusterID); err != nil {
		return err
	}

	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	serve(app)

	return nil
}

// NewMigrateCommand applies pending migrations and exits. MustSetupCore
// already runs Install, so connecting is all there is to it.
func NewMigrateCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
			fmt.Println("migrations applied")
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}
