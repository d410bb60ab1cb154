package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/webresearch/researcherctl/pkg/ollama"
	"github.com/webresearch/researcherctl/pkg/provision"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "setup":
			setupCmd := flag.NewFlagSet("setup", flag.ExitOnError)
			setupCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl setup [flags]\n\nProvision the researcher model on the local Ollama install.\n\nFlags:\n")
				setupCmd.PrintDefaults()
			}
			configPath := setupCmd.String("config", "", "path to configuration file (default: researcher.yaml if present)")
			envFile := setupCmd.String("env", ".env", "path to .env file (ignored if missing)")
			base := setupCmd.String("base", "", "base model to derive from (overrides config)")
			name := setupCmd.String("name", "", "name for the derived model (overrides config)")
			modelfilePath := setupCmd.String("modelfile", "", "where to write the Modelfile (overrides config)")
			verbose := setupCmd.Bool("verbose", false, "show pull progress and Modelfile diffs")
			_ = setupCmd.Parse(os.Args[2:])

			exitOnError(runSetup(*configPath, *envFile, setupOverrides{base: *base, name: *name, modelfile: *modelfilePath}, *verbose))

			return
		case "models":
			modelsCmd := flag.NewFlagSet("models", flag.ExitOnError)
			modelsCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl models [flags]\n\nList local models grouped by kind.\n\nFlags:\n")
				modelsCmd.PrintDefaults()
			}
			configPath := modelsCmd.String("config", "", "path to configuration file")
			envFile := modelsCmd.String("env", ".env", "path to .env file (ignored if missing)")
			_ = modelsCmd.Parse(os.Args[2:])

			exitOnError(runModels(*configPath, *envFile))

			return
		case "pull":
			pullCmd := flag.NewFlagSet("pull", flag.ExitOnError)
			pullCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl pull [flags] <model>\n\nDownload a model from the Ollama registry.\n\nFlags:\n")
				pullCmd.PrintDefaults()
			}
			configPath := pullCmd.String("config", "", "path to configuration file")
			envFile := pullCmd.String("env", ".env", "path to .env file (ignored if missing)")
			plain := pullCmd.Bool("plain", false, "plain progress output instead of the progress bar")
			_ = pullCmd.Parse(os.Args[2:])

			exitOnError(runPull(*configPath, *envFile, pullCmd.Arg(0), *plain))

			return
		case "create":
			createCmd := flag.NewFlagSet("create", flag.ExitOnError)
			createCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl create [flags]\n\nInteractively derive a research model from an installed base.\n\nFlags:\n")
				createCmd.PrintDefaults()
			}
			configPath := createCmd.String("config", "", "path to configuration file")
			envFile := createCmd.String("env", ".env", "path to .env file (ignored if missing)")
			_ = createCmd.Parse(os.Args[2:])

			exitOnError(runCreate(*configPath, *envFile))

			return
		case "delete":
			deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
			deleteCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl delete [flags] [model]\n\nDelete a local model. With no argument, pick from a list.\n\nFlags:\n")
				deleteCmd.PrintDefaults()
			}
			configPath := deleteCmd.String("config", "", "path to configuration file")
			envFile := deleteCmd.String("env", ".env", "path to .env file (ignored if missing)")
			yes := deleteCmd.Bool("yes", false, "skip the confirmation prompt")
			_ = deleteCmd.Parse(os.Args[2:])

			exitOnError(runDelete(*configPath, *envFile, deleteCmd.Arg(0), *yes))

			return
		case "show":
			showCmd := flag.NewFlagSet("show", flag.ExitOnError)
			showCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl show <model>\n\nShow model details.\n")
			}
			_ = showCmd.Parse(os.Args[2:])

			exitOnError(runShow(showCmd.Arg(0)))

			return
		case "ask":
			askCmd := flag.NewFlagSet("ask", flag.ExitOnError)
			askCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: researcherctl ask [flags] <prompt...>\n\nSend a one-shot research prompt to the researcher model.\n\nFlags:\n")
				askCmd.PrintDefaults()
			}
			configPath := askCmd.String("config", "", "path to configuration file")
			envFile := askCmd.String("env", ".env", "path to .env file (ignored if missing)")
			model := askCmd.String("model", "", "model to query (default: configured model name)")
			stream := askCmd.Bool("stream", false, "stream raw text instead of rendering markdown at the end")
			_ = askCmd.Parse(os.Args[2:])

			exitOnError(runAsk(*configPath, *envFile, *model, *stream, askCmd.Args()))

			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: researcherctl [flags]\n       researcherctl <command> [flags]\n\nRunning with no command provisions the researcher model (same as \"setup\").\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  setup   Provision the researcher model on the local Ollama install\n  models  List local models grouped by kind\n  pull    Download a model from the Ollama registry\n  create  Interactively derive a research model from an installed base\n  delete  Delete a local model\n  show    Show model details\n  ask     Send a one-shot research prompt to the researcher model\n")
	}

	configPath := flag.String("config", "", "path to configuration file (default: researcher.yaml if present)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	verbose := flag.Bool("verbose", false, "show pull progress and Modelfile diffs")
	flag.Parse()

	exitOnError(runSetup(*configPath, *envFile, setupOverrides{}, *verbose))
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newSignalContext returns a context cancelled on SIGINT/SIGTERM.
func newSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// loadEnvAndConfig is the common preamble for every command: load the .env
// file, then the YAML config.
func loadEnvAndConfig(configPath, envFile string) (provision.Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return provision.Config{}, err
	}

	return provision.LoadConfig(resolveConfigPath(configPath))
}

type setupOverrides struct {
	base      string
	name      string
	modelfile string
}

func runSetup(configPath, envFile string, ov setupOverrides, verbose bool) error {
	cfg, err := loadEnvAndConfig(configPath, envFile)
	if err != nil {
		return err
	}

	if ov.base != "" {
		cfg.BaseModel = ov.base
	}

	if ov.name != "" {
		cfg.ModelName = ov.name
	}

	if ov.modelfile != "" {
		cfg.ModelfilePath = ov.modelfile
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	p := &provision.Provisioner{
		Config:  cfg,
		Client:  ollama.New(cfg.OllamaURL),
		Out:     os.Stdout,
		Verbose: verbose,
	}

	if err := p.Run(ctx); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Failed to create model %q.", cfg.ModelName)))

		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Model %q created successfully!", cfg.ModelName)))
	fmt.Println(hintStyle.Render(fmt.Sprintf("Try it with: ollama run %s", cfg.ModelName)))

	return nil
}
