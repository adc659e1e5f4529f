package tidy

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configure a tidy repl
type TidyConfig struct {
	CpuProfile     string `yaml:"cpuprofile"`
	MemProfile     string `yaml:"memprofile"`
	ExitOnFailure  bool   `yaml:"exitonfail"`
	CountFuncCalls bool   `yaml:"countcalls"`
	Command        string `yaml:"-"`
	Sandboxed      bool   `yaml:"sandbox"`
	Quiet          bool   `yaml:"quiet"`
	Trace          bool   `yaml:"trace"`
	Verbose        bool   `yaml:"verbose"`
	MaxDepth       int    `yaml:"maxdepth"`

	// overlay data for every expression: a .json, .yaml or .bsave
	// file, or the result of Query against Driver/DSN
	Data   string `yaml:"data"`
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Query  string `yaml:"query"`

	ConfigFile string        `yaml:"-"`
	Flags      *flag.FlagSet `yaml:"-"`

	// liner bombs under emacs, avoid it with this flag.
	NoLiner bool   `yaml:"noliner"`
	Prompt  string `yaml:"prompt"` // default "tidy> "
}

func NewTidyConfig(cmdname string) *TidyConfig {
	return &TidyConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *TidyConfig) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.StringVar(&c.MemProfile, "memprofile", "", "write mem profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.BoolVar(&c.CountFuncCalls, "countcalls", false, "count how many times each function is run")
	c.Flags.StringVar(&c.Command, "c", "", "expressions to evaluate")
	c.Flags.BoolVar(&c.Sandboxed, "sandbox", false, "run sandboxed; disallow file, database and output functions")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "trace calls (warning: very verbose)")
	c.Flags.BoolVar(&c.Verbose, "verbose", false, "log overscope rechaining")
	c.Flags.IntVar(&c.MaxDepth, "maxdepth", DefaultMaxDepth, "maximum evaluation depth")
	c.Flags.StringVar(&c.Data, "data", "", "file whose contents are overlaid as data (.json, .yaml, .yml, .bsave)")
	c.Flags.StringVar(&c.Driver, "driver", "", "database/sql driver for -query, e.g. sqlite, postgres, mysql")
	c.Flags.StringVar(&c.DSN, "dsn", "", "data source name for -driver")
	c.Flags.StringVar(&c.Query, "query", "", "SQL whose result columns are overlaid as data")
	c.Flags.StringVar(&c.ConfigFile, "config", "", "yaml file of defaults; flags given on the command line win")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read stdin line by line, without line editing")
	c.Flags.StringVar(&c.Prompt, "prompt", "", "repl prompt")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *TidyConfig) ValidateConfig() error {
	if c.ConfigFile != "" {
		if err := c.loadConfigFile(c.ConfigFile); err != nil {
			return err
		}
	}
	if c.Prompt == "" {
		c.Prompt = "tidy> "
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("-maxdepth must not be negative")
	}
	if c.Query != "" && (c.Driver == "" || c.DSN == "") {
		return fmt.Errorf("-query needs both -driver and -dsn")
	}
	if c.Query != "" && c.Data != "" {
		return fmt.Errorf("-data and -query cannot both be given")
	}
	return nil
}

// loadConfigFile fills in every field whose flag was not set explicitly.
func (c *TidyConfig) loadConfigFile(path string) error {
	by, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var fromFile TidyConfig
	fromFile.MaxDepth = c.MaxDepth
	if err := yaml.Unmarshal(by, &fromFile); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	set := map[string]bool{}
	if c.Flags != nil {
		c.Flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	}
	pick := func(name string, apply func()) {
		if !set[name] {
			apply()
		}
	}
	pick("cpuprofile", func() { c.CpuProfile = fromFile.CpuProfile })
	pick("memprofile", func() { c.MemProfile = fromFile.MemProfile })
	pick("exitonfail", func() { c.ExitOnFailure = fromFile.ExitOnFailure })
	pick("countcalls", func() { c.CountFuncCalls = fromFile.CountFuncCalls })
	pick("sandbox", func() { c.Sandboxed = fromFile.Sandboxed })
	pick("quiet", func() { c.Quiet = fromFile.Quiet })
	pick("trace", func() { c.Trace = fromFile.Trace })
	pick("verbose", func() { c.Verbose = fromFile.Verbose })
	pick("maxdepth", func() { c.MaxDepth = fromFile.MaxDepth })
	pick("data", func() { c.Data = fromFile.Data })
	pick("driver", func() { c.Driver = fromFile.Driver })
	pick("dsn", func() { c.DSN = fromFile.DSN })
	pick("query", func() { c.Query = fromFile.Query })
	pick("noliner", func() { c.NoLiner = fromFile.NoLiner })
	pick("prompt", func() { c.Prompt = fromFile.Prompt })
	return nil
}

// LoadDataSource returns the overlay named by -data or -query, or nil.
func (c *TidyConfig) LoadDataSource(ctx context.Context) (Sexp, error) {
	if c.Query != "" {
		db, err := OpenData(ctx, c.Driver, c.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return QueryData(ctx, db, c.Query)
	}
	if c.Data == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(c.Data)) {
	case ".json":
		by, err := os.ReadFile(c.Data)
		if err != nil {
			return nil, err
		}
		return JsonToData(by)
	case ".yaml", ".yml":
		by, err := os.ReadFile(c.Data)
		if err != nil {
			return nil, err
		}
		return YamlToData(by)
	case ".bsave", ".gp", ".msgp":
		xs, err := LoadDataFile(c.Data)
		if err != nil {
			return nil, err
		}
		if len(xs) != 1 {
			return nil, fmt.Errorf("%s holds %d values, expected one", c.Data, len(xs))
		}
		return xs[0], nil
	}
	return nil, fmt.Errorf("cannot tell the format of data file '%s'", c.Data)
}
