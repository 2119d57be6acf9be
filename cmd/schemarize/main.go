package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/schemarize/schemarize"
	"github.com/schemarize/schemarize/schema"
)

var (
	cfgFile    string
	sampleSize int
	format     string
	outputFile string
	table      string
	streamFmt  string
	logLevel   string
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "schemarize <source>",
	Short: "Infer a data schema from a tabular or semi-structured source",
	Long: `Schemarize samples records from CSV, JSON, JSONL, or Parquet files
(optionally gzip/bzip2/zstd compressed), SQL databases (postgres://,
mysql://, sqlite:// URLs), or stdin, infers each column's type and
nullability, and prints the schema as JSON, YAML, or CSV.

Pass "-" as the source to read from stdin; --stream-format is required
in that case since stdin carries no file extension.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.schemarize.yaml)")
	rootCmd.Flags().IntVarP(&sampleSize, "sample-size", "n", 0, "Maximum records to sample (default: 100, negative: unlimited)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, or csv")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&table, "table", "t", "", "Table to sample (database sources only)")
	rootCmd.Flags().StringVar(&streamFmt, "stream-format", "", "Record format when reading from stdin: csv, json, or jsonl")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, or error")

	_ = viper.BindPFlag("sample-size", rootCmd.Flags().Lookup("sample-size"))
	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("log-level", rootCmd.Flags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".schemarize")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("SCHEMARIZE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("loaded config file")
	}
}

func run(cmd *cobra.Command, args []string) error {
	lvl, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", viper.GetString("log-level"))
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	outFormat := schema.Format(viper.GetString("format"))
	if !outFormat.Valid() {
		return fmt.Errorf("invalid output format %q (must be json, yaml, or csv)", outFormat)
	}

	opts := &schemarize.Options{
		SampleSize: viper.GetInt("sample-size"),
		Output:     outFormat,
		Format:     streamFmt,
		Table:      table,
	}

	src := sourceFromArg(args[0])
	log.WithFields(logrus.Fields{
		"source":      args[0],
		"sample_size": opts.SampleSize,
		"format":      outFormat,
	}).Debug("inferring schema")

	start := time.Now()
	s, err := schemarize.Schemarize(context.Background(), src, opts)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"fields":   len(s.Fields),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("schema inferred")

	if outputFile != "" {
		return s.WriteFile(outputFile)
	}
	return s.Write(os.Stdout)
}

// sourceFromArg maps the positional argument to a Schemarize source:
// "-" means stdin, everything else is a path or database URL.
func sourceFromArg(arg string) any {
	if arg == "-" {
		return os.Stdin
	}
	return arg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
