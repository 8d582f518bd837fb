// Program preview-prompt prints the compiled model request for a sample idea
// in every category without calling any provider. It is a rubric authoring aid.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/rubric"
	"github.com/ppiankov/ideajudge/internal/schema"
)

func main() {
	only := flag.String("category", "", "preview a single category code")
	showSchema := flag.Bool("schema", false, "also print the response schema")
	flag.Parse()

	registry := rubric.DefaultRegistry()
	compiler, err := rubric.NewCompiler(registry, "", "preview", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create compiler: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Rubric Instruction Preview ===")
	fmt.Println()

	for _, p := range registry.Policies() {
		for _, cat := range p.Categories() {
			if *only != "" && cat.Code != *only {
				continue
			}

			idea := model.Idea{
				Title:       "示例项目：" + cat.Label,
				Description: "这是一个用于预览评审指令的示例项目描述，面向" + cat.Label + "方向的真实需求。",
				Track:       model.TrackHigherEdu,
				Category:    cat.Code,
			}

			req, err := compiler.Compile(idea)
			if err != nil {
				fmt.Printf("%s: compile error: %v\n\n", cat.Code, err)
				continue
			}

			fmt.Printf("Policy: %s (%s)  Category: %s\n", p.Name(), p.Label(), cat.Code)
			fmt.Println(strings.Repeat("-", 60))
			fmt.Println(req.Instruction)

			if *showSchema {
				data, err := schema.JSON(req.Schema)
				if err != nil {
					fmt.Printf("schema error: %v\n", err)
				} else {
					fmt.Println()
					fmt.Println(string(data))
				}
			}
			fmt.Println()
		}
	}
}
