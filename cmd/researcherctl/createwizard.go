package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/webresearch/researcherctl/pkg/catalog"
	"github.com/webresearch/researcherctl/pkg/ollama"
)

func runCreate(configPath, envFile string) error {
	cfg, err := loadEnvAndConfig(configPath, envFile)
	if err != nil {
		return err
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	return runCreateWizard(ctx, ollama.New(cfg.OllamaURL))
}

// runCreateWizard walks the user through deriving a research model: pick a
// base, choose a context length, confirm, build.
func runCreateWizard(ctx context.Context, client *ollama.Client) error {
	installed, err := client.List(ctx)
	if err != nil {
		fmt.Println(dimStyle.Render("warning: could not list installed models: " + err.Error()))
	}

	options := catalog.BaseOptions(installed)

	var base string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Base model").
			Description("Installed models plus recommended bases").
			Options(huh.NewOptions(options...)...).
			Value(&base),
	)).Run(); err != nil {
		return err
	}

	if e, ok := catalog.Lookup(base); ok {
		fmt.Println(dimStyle.Render(e.Description))
	}

	ctxStr := strconv.Itoa(catalog.ContextLengthFor(base))
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Context length").
			Description("Tokens of context for the derived model (1000-128000)").
			Value(&ctxStr).
			Validate(validateContextLength),
	)).Run(); err != nil {
		return err
	}

	name := catalog.ResearchModelName(base)

	var confirmed bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Create model %s?", name)).
			Value(&confirmed),
	)).Run(); err != nil {
		return err
	}

	if !confirmed {
		return nil
	}

	ctxLen, _ := strconv.Atoi(ctxStr)

	created, err := catalog.CreateResearchModel(ctx, client, base, ctxLen)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Successfully created model %s", created)))
	fmt.Println(hintStyle.Render(fmt.Sprintf("Try it with: ollama run %s", created)))

	return nil
}

// validateContextLength accepts the range the Ollama bases here support.
func validateContextLength(s string) error {
	if s == "" {
		return nil // empty falls back to the recommended default
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}

	if n < 1000 || n > 128000 {
		return fmt.Errorf("must be between 1000 and 128000")
	}

	return nil
}

// pickModel presents a selector over the installed models.
func pickModel(ctx context.Context, client *ollama.Client) (string, error) {
	models, err := client.List(ctx)
	if err != nil {
		return "", err
	}

	if len(models) == 0 {
		return "", fmt.Errorf("no models installed")
	}

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}

	var name string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Model").
			Options(huh.NewOptions(names...)...).
			Value(&name),
	)).Run(); err != nil {
		return "", err
	}

	return name, nil
}

// confirmDelete asks before removing a model.
func confirmDelete(name string) (bool, error) {
	var ok bool

	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete model %s?", name)).
			Value(&ok),
	)).Run()

	return ok, err
}
