package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/pegsh/pegsh/core/config"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pegsh",
	Short: "A sandboxed shell with a PEG syntax front end.",
	Long: `pegsh is a sandboxed command shell. Scripts are parsed by an
ordered-choice grammar into pipelines of built-in commands that run against a
virtual OS, locally or served over SSH as a honeypot.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
