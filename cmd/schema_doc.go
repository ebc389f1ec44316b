package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"eventide/internal/scripting/catalog"
	"eventide/internal/scripting/manager"
	"eventide/internal/scripting/parser"
	"eventide/internal/scripting/types"
	"eventide/internal/scripting/validate"
	"eventide/internal/world"
)

// SchemaDoc is the YAML form of one command schema
type SchemaDoc struct {
	ID          string   `yaml:"id"`
	Alias       string   `yaml:"alias,omitempty"`
	Category    string   `yaml:"category"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Optional    []string `yaml:"optional,omitempty"`
	Flags       []string `yaml:"flags,omitempty"`
	Verbatim    []string `yaml:"verbatim,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

func main() {
	var (
		outputFile  = flag.String("output", "", "Output YAML file path (prints to stdout if not specified)")
		projectFile = flag.String("lint", "", "Lint every event script in this project instead of dumping schemas")
		worldFile   = flag.String("world", "", "World fixture used to check unit and group names while linting")
	)
	flag.Parse()

	cat := catalog.Standard()
	if *projectFile != "" {
		problems, err := lint(cat, *projectFile, *worldFile)
		if err != nil {
			fmt.Printf("Error linting %s: %v\n", *projectFile, err)
			os.Exit(1)
		}
		if problems > 0 {
			fmt.Printf("%d problem(s) found\n", problems)
			os.Exit(1)
		}
		return
	}

	data, err := yaml.Marshal(schemaDocs(cat))
	if err != nil {
		fmt.Printf("Error encoding schemas: %v\n", err)
		os.Exit(1)
	}
	if *outputFile == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d command schemas to %s\n", cat.Len(), *outputFile)
}

func schemaDocs(cat *catalog.Catalog) []SchemaDoc {
	var docs []SchemaDoc
	for _, s := range cat.All() {
		docs = append(docs, SchemaDoc{
			ID:          s.ID,
			Alias:       s.Alias,
			Category:    string(s.Category),
			Keywords:    s.Keywords,
			Optional:    s.Optional,
			Flags:       s.Flags,
			Verbatim:    s.Verbatim,
			Description: s.Description,
		})
	}
	return docs
}

// lint parses every script of the project and prints parse errors and
// argument problems. It returns the number of problems.
func lint(cat *catalog.Catalog, projectFile, worldFile string) (int, error) {
	project, err := manager.LoadProject(projectFile)
	if err != nil {
		return 0, err
	}
	var w types.World
	if worldFile != "" {
		loaded, err := world.Load(worldFile)
		if err != nil {
			return 0, err
		}
		w = loaded
	}
	checks := validate.Standard(w)
	p := parser.New(cat)

	problems := 0
	for _, ev := range project.Events {
		cmds, errs := p.ParseScript(ev.Script)
		for _, err := range errs {
			fmt.Printf("%s: %v\n", ev.NID, err)
			problems++
		}
		for i, cmd := range cmds {
			schema, _ := cat.Lookup(cmd.ID)
			for _, err := range checks.Check(schema, cmd) {
				fmt.Printf("%s: command %d (%s): %v\n", ev.NID, i+1, parser.Serialize(cmd), err)
				problems++
			}
		}
	}
	return problems, nil
}
