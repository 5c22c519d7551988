package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"time"

	"github.com/delaneyj/reactor/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	outKey = "out"
	pkgKey = "pkg"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate element constructors for the vdom package",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Output file",
				Value: "vdom/tags_gen.go",
			},
			&cli.StringFlag{
				Name:  pkgKey,
				Usage: "Package name of the generated file",
				Value: "vdom",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for element constructors started !")
	defer func() {
		log.Printf("Codegen for element constructors finished in %v", time.Since(start))
	}()

	tags := templates.HTMLTags()
	log.Printf("Tags: %d", len(tags))

	contents, err := format.Source([]byte(templates.TagsGen(cmd.String(pkgKey), tags)))
	if err != nil {
		return err
	}
	return os.WriteFile(cmd.String(outKey), contents, 0644)
}
