package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/apache/ambari-config-initializer/internal/check"
	"github.com/apache/ambari-config-initializer/internal/derive"
	"github.com/apache/ambari-config-initializer/internal/discover"
	"github.com/apache/ambari-config-initializer/internal/server"
	"github.com/apache/ambari-config-initializer/pkg/config"
	"github.com/apache/ambari-config-initializer/pkg/deriver"
	"github.com/apache/ambari-config-initializer/pkg/logger"
	"github.com/apache/ambari-config-initializer/pkg/progress"
	"github.com/apache/ambari-config-initializer/pkg/siteconfig"
	"github.com/apache/ambari-config-initializer/pkg/ssh"
)

var (
	cfgFile string
	verbose bool
	log     *logger.Logger
)

var (
	topologyFile   string
	propertiesFile string
	outputPath     string
	outputFormat   string
	dryRun         bool
	writeBack      bool
	onlyMissing    bool
	promptPassword bool
)

var rootCmd = &cobra.Command{
	Use:   "aci",
	Short: "Ambari Config Initializer - derive cluster configuration from a topology",
	Long: `Ambari Config Initializer (ACI) fills topology dependent configuration
values of a Hadoop stack: component host addresses, ZooKeeper quorums,
host lists and data directories spread over every usable disk.

Input is a cluster layout file (hosts, masters, slaves and disks) and a
property file; output is the same property file with recommended values
updated, or one *-site.xml per configuration file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.NewLogger(logger.Options{
			Level:   viper.GetString("log.level"),
			File:    viper.GetString("log.file"),
			Console: verbose || viper.GetBool("log.console"),
		})
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		log = l
		if verbose {
			log.Infof("Using config file: %s", viper.ConfigFileUsed())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Close()
		}
	},
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive recommended values for a property file",
	Long: `Derive recommended values for every property with a known rule.

  aci derive -t topology.yaml -p properties.yaml                 # 输出到标准输出
  aci derive -t topology.yaml -p properties.yaml -o out.json     # 按扩展名或 --format 写文件
  aci derive -t topology.yaml -p properties.yaml -o conf --format xml  # 每个配置文件生成一个 *-site.xml
  aci derive -t topology.yaml -p properties.yaml --dry-run       # 只打印派生结果`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		doc, err := loadProperties(true)
		if err != nil {
			return err
		}

		format, err := resolveFormat()
		if err != nil {
			return err
		}

		report := derive.NewRunner(deriver.NewDeriver(nil, log.Logger), log.Logger).Run(cfg.Topology(), doc, dryRun)
		fmt.Fprintf(os.Stderr, "run %s: %d applied, %d skipped, %d without rule\n",
			report.RunID, report.Summary.Applied, report.Summary.Skipped, report.Summary.Unknown)

		if dryRun {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(report)
		}

		out := report.Document(doc.Dependencies)
		if outputPath == "" {
			if format == siteconfig.FormatXML {
				return fmt.Errorf("--output directory is required for xml format")
			}
			return siteconfig.Encode(os.Stdout, out, format)
		}
		if err := siteconfig.Save(outputPath, out, format); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.Infof("Derived properties written to %s", outputPath)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check which rules apply to a topology",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		doc, err := loadProperties(false)
		if err != nil {
			return err
		}
		checker := check.NewChecker(cfg.Topology(), nil, log.Logger)
		return checker.Run(doc.Properties, doc.Dependencies)
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Collect disk inventory of every host over SSH",
	Long: `Collect disk inventory of every host over SSH with df and store it in
the layout file.

  aci discover -t topology.yaml                 # 仅打印采集结果
  aci discover -t topology.yaml --write         # 写回 topology.yaml
  aci discover -t topology.yaml --only-missing  # 只采集没有磁盘信息的主机`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		if err := cfg.ValidateSSH(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		steps := progress.NewStepProgress(2, log.Logger)
		steps.StartStep("磁盘采集")
		runner := discover.SSHRunner{Options: ssh.Options{
			Timeout:     viper.GetDuration("discover.timeout"),
			Interactive: promptPassword,
		}}
		d := discover.NewDiscoverer(cfg, runner, log.Logger, discover.Options{
			Concurrency: viper.GetInt("discover.concurrency"),
			Timeout:     viper.GetDuration("discover.timeout"),
			OnlyMissing: onlyMissing,
		})
		results, err := d.Run(ctx)
		if err != nil {
			steps.FailStep(err.Error())
			return err
		}
		steps.CompleteStep(fmt.Sprintf("%d 台主机", len(results)))

		steps.StartStep("写回配置")
		if !writeBack {
			steps.SkipStep("未指定 --write")
			return nil
		}
		if err := config.SaveConfig(cfg, topologyFile); err != nil {
			steps.FailStep(err.Error())
			return err
		}
		steps.CompleteStep(topologyFile)
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List derivation rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROPERTY\tFILE\tKIND\tCOMPONENTS")
		for _, r := range deriver.DefaultRegistry().Rules() {
			file := r.Filename
			if file == "" {
				file = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, file, r.Strategy.Kind(), strings.Join(r.Strategy.Components(), ","))
		}
		return w.Flush()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the derivation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := server.NewAPIServer(viper.GetString("server.addr"), nil, log.Logger)
		return s.Run(ctx)
	},
}

func loadTopology() (*config.Config, error) {
	if topologyFile == "" {
		return nil, fmt.Errorf("topology file is required, please specify with --topology")
	}
	cfg, err := config.LoadConfig(topologyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load topology: %w", err)
	}
	return cfg, nil
}

func loadProperties(required bool) (*siteconfig.Document, error) {
	if propertiesFile == "" {
		if required {
			return nil, fmt.Errorf("properties file is required, please specify with --properties")
		}
		return &siteconfig.Document{}, nil
	}
	doc, err := siteconfig.Load(propertiesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	return doc, nil
}

// resolveFormat 优先使用 --format，其次按输出文件扩展名，最后使用 derive.format
func resolveFormat() (siteconfig.Format, error) {
	if outputFormat != "" {
		return siteconfig.ParseFormat(outputFormat)
	}
	if outputPath != "" && strings.Contains(outputPath, ".") {
		return siteconfig.FormatOf(outputPath), nil
	}
	return siteconfig.ParseFormat(viper.GetString("derive.format"))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default search: ./aci.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "log file (default aci-<time>.log, \"-\" to disable)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))

	for _, cmd := range []*cobra.Command{deriveCmd, checkCmd, discoverCmd} {
		cmd.Flags().StringVarP(&topologyFile, "topology", "t", "", "cluster layout file")
	}
	for _, cmd := range []*cobra.Command{deriveCmd, checkCmd} {
		cmd.Flags().StringVarP(&propertiesFile, "properties", "p", "", "property file (yaml, json or site xml)")
	}

	deriveCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file, or directory for xml")
	deriveCmd.Flags().StringVar(&outputFormat, "format", "", "output format: yaml, json, xml")
	deriveCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the derivation report without writing")

	discoverCmd.Flags().BoolVar(&writeBack, "write", false, "store discovered disks in the topology file")
	discoverCmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "only probe hosts without disks")
	discoverCmd.Flags().BoolVar(&promptPassword, "ask-password", false, "prompt for passwords of hosts without credentials")
	discoverCmd.Flags().Int("concurrency", 5, "hosts probed in parallel")
	discoverCmd.Flags().Duration("timeout", 0, "per host timeout (default 30s)")
	viper.BindPFlag("discover.concurrency", discoverCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("discover.timeout", discoverCmd.Flags().Lookup("timeout"))

	serveCmd.Flags().String("addr", ":18080", "listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(deriveCmd, checkCmd, discoverCmd, rulesCmd, serveCmd)
}

func initConfig() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.console", false)
	viper.SetDefault("server.addr", ":18080")
	viper.SetDefault("discover.concurrency", 5)
	viper.SetDefault("derive.format", "yaml")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".") // 当前目录
		viper.SetConfigType("yaml")
		viper.SetConfigName("aci")
	}

	viper.SetEnvPrefix("ACI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
