package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/webresearch/researcherctl/pkg/catalog"
	"github.com/webresearch/researcherctl/pkg/ollama"
)

func runModels(configPath, envFile string) error {
	cfg, err := loadEnvAndConfig(configPath, envFile)
	if err != nil {
		return err
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	client := ollama.New(cfg.OllamaURL)

	models, err := client.List(ctx)
	if err != nil {
		return err
	}

	if len(models) == 0 {
		fmt.Println(dimStyle.Render("No models installed. Pull one with: researcherctl pull <model>"))

		return nil
	}

	g := catalog.Categorize(models)

	printModelGroup("Research models", g.Research)
	printModelGroup("Recommended bases", g.Recommended)
	printModelGroup("Other models", g.Other)

	return nil
}

func printModelGroup(title string, models []ollama.Model) {
	if len(models) == 0 {
		return
	}

	fmt.Println(headerStyle.Render(title))

	for _, m := range models {
		desc := ""
		if e, ok := catalog.Lookup(m.Name); ok {
			desc = e.Description
		}

		fmt.Printf("  %-32s %10s  %s\n", truncate(m.Name, 32), fmtBytes(m.Size), dimStyle.Render(truncate(desc, 44)))
	}

	fmt.Println()
}

func runPull(configPath, envFile, name string, plain bool) error {
	cfg, err := loadEnvAndConfig(configPath, envFile)
	if err != nil {
		return err
	}

	if name == "" {
		name = cfg.BaseModel
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	client := ollama.New(cfg.OllamaURL)

	if plain {
		return runPullPlain(ctx, client, name)
	}

	return runPullView(ctx, client, name)
}

func runDelete(configPath, envFile, name string, yes bool) error {
	cfg, err := loadEnvAndConfig(configPath, envFile)
	if err != nil {
		return err
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	client := ollama.New(cfg.OllamaURL)

	if name == "" {
		name, err = pickModel(ctx, client)
		if err != nil {
			return err
		}
	}

	if !yes {
		ok, err := confirmDelete(name)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}
	}

	if err := client.Delete(ctx, name); err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Deleted model %s", name)))

	return nil
}

func runShow(name string) error {
	if name == "" {
		return fmt.Errorf("show: model name is required")
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	client := ollama.New("")

	info, err := client.Show(ctx, name)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	fmt.Println(headerStyle.Render(name))

	for _, k := range keys {
		fmt.Printf("  %-20s %s\n", k, info[k])
	}

	return nil
}

func runAsk(configPath, envFile, model string, stream bool, promptWords []string) error {
	prompt := strings.TrimSpace(strings.Join(promptWords, " "))
	if prompt == "" {
		return fmt.Errorf("ask: a prompt is required")
	}

	cfg, err := loadEnvAndConfig(configPath, envFile)
	if err != nil {
		return err
	}

	if model == "" {
		model = cfg.ModelName
	}

	ctx, cancel := newSignalContext()
	defer cancel()

	client := ollama.New(cfg.OllamaURL)

	if stream {
		_, err := client.Generate(ctx, ollama.GenerateRequest{Model: model, Prompt: prompt}, func(chunk ollama.GenerateResponse) {
			fmt.Print(chunk.Response)
		})
		fmt.Println()

		return err
	}

	out, err := client.Generate(ctx, ollama.GenerateRequest{Model: model, Prompt: prompt}, nil)
	if err != nil {
		return err
	}

	initMarkdownRenderer(100)
	fmt.Println(renderMarkdown(out))

	return nil
}
