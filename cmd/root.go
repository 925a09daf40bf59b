package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magneticio/go-common/logging"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seqsense/plycrop/ply"
)

// Version is overwritten at link time.
var Version = "v0.0.0-dev"

const (
	keyConfig     = "config"
	keyVerbose    = "verbose"
	keySampleSize = "sample_size"
	keyChunkSize  = "chunk_size"
)

type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "plycrop",
		Short: "Crop PLY point clouds by spatial bounds",
		Long: `Crop binary PLY point clouds by removing points outside of X, Y, Z ranges:
  plycrop analyze scan.ply
  plycrop crop scan.ply cropped.ply --center-crop 0.8
  `,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig()
		},
	}
	rootCmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.plycrop/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	o.v.BindPFlag(keyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(
		newAnalyzeCmd(o),
		newCropCmd(o),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	logging.Init(os.Stdout, os.Stderr)
}

// initConfig reads in config file and ENV variables if set.
func (o *rootOptions) initConfig() error {
	o.v.SetEnvPrefix("plycrop")
	o.v.AutomaticEnv()
	o.v.BindEnv(keyConfig, "PLYCROP_CONFIG")
	o.v.SetDefault(keySampleSize, ply.DefaultSampleSize)
	o.v.SetDefault(keyChunkSize, ply.DefaultChunkSize)

	if o.cfgFile == "" {
		o.cfgFile = o.v.GetString(keyConfig)
	}
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
		if err := o.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", o.cfgFile)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			logging.Error("Can not find home directory: %v\n", err)
		} else {
			o.v.AddConfigPath(filepath.Join(home, ".plycrop"))
			o.v.SetConfigName("config")
			// A missing default config file is not an error.
			o.v.ReadInConfig()
		}
	}
	logging.Verbose = o.v.GetBool(keyVerbose)
	if used := o.v.ConfigFileUsed(); used != "" {
		logging.Info("Using config file: %v\n", used)
	}
	return nil
}

// intSetting binds the flag to key, so that a given flag overrides the
// environment and the config file.
func (o *rootOptions) intSetting(cmd *cobra.Command, key, flag string) (int, error) {
	if err := o.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		return 0, err
	}
	n := o.v.GetInt(key)
	if n <= 0 {
		return 0, errors.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
