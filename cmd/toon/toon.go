// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program toon decodes, encodes, and reformats TOON documents.
//
// Usage:
//
//	toon decode [file]   -- parse TOON and print the document tree
//	toon encode [file]   -- convert JSON to TOON
//	toon fmt [file]      -- reformat TOON canonically
//
// With no file argument, or with "-", input is read from stdin.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/creachadair/toon/ast"
	"github.com/creachadair/toon/enc"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "toon",
		Usage: "decode, encode, and reformat TOON documents",
		Commands: []*cli.Command{{
			Name:      "decode",
			Usage:     "parse TOON input and print the document tree",
			ArgsUsage: "[file]",
			Action:    runDecode,
		}, {
			Name:      "encode",
			Usage:     "convert JSON input to TOON",
			ArgsUsage: "[file]",
			Action:    runEncode,
		}, {
			Name:      "fmt",
			Usage:     "reformat TOON input canonically",
			ArgsUsage: "[file]",
			Action:    runFmt,
		}},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func readInput(c *cli.Context) ([]byte, error) {
	if name := c.Args().First(); name != "" && name != "-" {
		return os.ReadFile(name)
	}
	return io.ReadAll(os.Stdin)
}

func runDecode(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	res := ast.ParseString(string(data))
	if err := ast.Dump(os.Stdout, res.Doc); err != nil {
		return err
	}
	for _, e := range res.Errors {
		fmt.Fprintln(os.Stderr, "toon:", e)
	}
	if res.HasErrors() {
		return cli.Exit(fmt.Sprintf("%d parse errors", len(res.Errors)), 1)
	}
	return nil
}

func runEncode(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	out, err := enc.JSON(data)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runFmt(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	res := ast.ParseString(string(data))
	for _, e := range res.Errors {
		fmt.Fprintln(os.Stderr, "toon:", e)
	}
	if res.HasErrors() {
		return cli.Exit(fmt.Sprintf("%d parse errors", len(res.Errors)), 1)
	}
	fmt.Print(enc.Encode(enc.FromDocument(res.Doc)))
	return nil
}
