// Package provision implements the end-to-end setup flow that turns a fresh
// Ollama install into one carrying the customized researcher model: check the
// ollama binary, pull the base model, write the Modelfile, build the derived
// model, and confirm it shows up in the listing.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"

	"github.com/webresearch/researcherctl/pkg/modelfile"
	"github.com/webresearch/researcherctl/pkg/ollama"
)

// ErrOllamaMissing means the ollama binary is not resolvable on PATH.
var ErrOllamaMissing = errors.New("ollama is not installed (install it from " + ollama.InstallHint + ")")

// ErrNotRegistered means the derived model did not appear in the model
// listing after the create step.
var ErrNotRegistered = errors.New("model missing from listing after create")

// ModelAPI is the subset of the Ollama client the provisioner needs.
type ModelAPI interface {
	Pull(ctx context.Context, name string, fn ollama.PullFunc) error
	Create(ctx context.Context, name, modelfilePath string) error
	List(ctx context.Context) ([]ollama.Model, error)
}

// LookPathFunc resolves a binary on PATH. Swappable in tests.
type LookPathFunc func(file string) (string, error)

// Provisioner runs the setup flow. Zero values for LookPath and Out fall
// back to exec.LookPath and os.Stdout.
type Provisioner struct {
	Config   Config
	Client   ModelAPI
	LookPath LookPathFunc
	Out      io.Writer
	Verbose  bool
}

// Run executes the provisioning steps in order: dependency check, base model
// pull, Modelfile generation, model build, and a final listing check. The
// dependency check and the final check are fatal. A pull failure is reported
// but does not abort the run: a previously cached base model still lets the
// build succeed, and a genuinely absent base fails the build step instead.
func (p *Provisioner) Run(ctx context.Context) error {
	if err := p.Config.Validate(); err != nil {
		return err
	}

	if err := p.checkInstalled(); err != nil {
		return err
	}

	p.pullBase(ctx)

	if err := p.writeModelfile(); err != nil {
		return err
	}

	if err := p.create(ctx); err != nil {
		return err
	}

	return p.verify(ctx)
}

func (p *Provisioner) checkInstalled() error {
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = osexec.LookPath
	}

	if _, err := lookPath("ollama"); err != nil {
		return fmt.Errorf("provision: %w", ErrOllamaMissing)
	}

	return nil
}

func (p *Provisioner) pullBase(ctx context.Context) {
	p.printf("Pulling base model %s...\n", p.Config.BaseModel)

	var lastStatus string

	err := p.Client.Pull(ctx, p.Config.BaseModel, func(pr ollama.PullProgress) {
		if !p.Verbose || pr.Status == lastStatus {
			return
		}

		lastStatus = pr.Status
		p.printf("  %s\n", pr.Status)
	})
	if err != nil {
		p.printf("warning: pull failed: %v\n", err)
	}
}

func (p *Provisioner) writeModelfile() error {
	doc := modelfile.Researcher()
	doc.From = p.Config.BaseModel

	rendered := doc.Render()

	if existing, err := os.ReadFile(p.Config.ModelfilePath); err == nil && p.Verbose {
		if diff, derr := modelfile.Diff(string(existing), rendered); derr == nil && diff != "" {
			p.printf("Overwriting %s:\n%s", p.Config.ModelfilePath, diff)
		}
	}

	p.printf("Writing %s...\n", p.Config.ModelfilePath)

	return doc.Write(p.Config.ModelfilePath)
}

func (p *Provisioner) create(ctx context.Context) error {
	p.printf("Creating model %s...\n", p.Config.ModelName)

	return p.Client.Create(ctx, p.Config.ModelName, p.Config.ModelfilePath)
}

func (p *Provisioner) verify(ctx context.Context) error {
	models, err := p.Client.List(ctx)
	if err != nil {
		return fmt.Errorf("provision: verify: %w", err)
	}

	for _, m := range models {
		if m.Name == p.Config.ModelName || hasTagOf(m.Name, p.Config.ModelName) {
			return nil
		}
	}

	return fmt.Errorf("provision: %s: %w", p.Config.ModelName, ErrNotRegistered)
}

func hasTagOf(name, base string) bool {
	return len(name) > len(base) && name[:len(base)] == base && name[len(base)] == ':'
}

func (p *Provisioner) printf(format string, args ...any) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, format, args...)
}
