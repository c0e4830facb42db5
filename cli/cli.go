package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skoobert/cli/cmd"
	"github.com/ardnew/skoobert/pkg"
)

// CLI is the top-level command-line interface for skoobert.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path string `help:"Directories searched for program files, separated by '${pathSep}' (default from ${pathEnv})" name:"path" placeholder:"DIRS"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run programs and print their output"`
	Check  cmd.Check  `cmd:""                    help:"Run a program and assert predicates over its output"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Print programs in canonical form"`
	Tokens cmd.Tokens `cmd:""                    help:"Dump the token stream of a program"`
	AST    cmd.AST    `cmd:""                    help:"Dump the syntax tree of a program"  name:"ast"`
	Expand cmd.Expand `cmd:""                    help:"Print symbolic expansions against a program's bindings"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`

	Version cmd.Version `cmd:"" help:"Print version information"`
}

// Run parses args, runs the selected command and reports its error on
// stderr. Parse failures and help requests end through exit.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Flags applied during parsing never see kong's decoding of switches,
	// so the logger flags are applied once before it starts.
	cli.Log.scan(args)

	parser, err := cli.parser(ctx, exit)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithSearchPath(cmd.WithContext(ctx, ktx), cli.searchPath())

	cli.Log.start(ctx)
	defer cli.Pprof.start(ctx)()

	if err = ktx.Run(ctx, &cli); err != nil {
		cmd.RenderError(os.Stderr, err)
	}

	return err
}

// parser builds the kong parser for c. Flag defaults are read from the
// configuration file before the command line.
func (c *CLI) parser(ctx context.Context, exit func(code int)) (*kong.Kong, error) {
	config := configPath(configFile)

	vars := kong.Vars{
		cmd.ConfigIdentifier:  config,
		cmd.CacheIdentifier:   cacheDir(),
		cmd.SectionIdentifier: baseConfig,
		"pathSep":             pathListSeparator,
		"pathEnv":             pkg.PathEnv,
	}

	for _, more := range []kong.Vars{cmd.Vars(), c.Log.vars(), c.Pprof.vars()} {
		vars = vars.CloneWith(more)
	}

	return kong.New(c,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(resolve(baseConfig), config),
		vars,
	)
}

// searchPath returns the --path flag, or the environment variable named by
// [pkg.PathEnv] when the flag is unset.
func (c *CLI) searchPath() string {
	if c.Path != "" {
		return c.Path
	}

	return os.Getenv(pkg.PathEnv)
}
