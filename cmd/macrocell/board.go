package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/jrhy/macrocell"
	"github.com/urfave/cli/v2"
)

var cmdStat = &cli.Command{
	Name:      "stat",
	Usage:     "decode a macrocell file and describe the board",
	ArgsUsage: `<file>`,
	Action:    runStat,
}

var cmdCells = &cli.Command{
	Name:      "cells",
	Usage:     "list the alive cells of a macrocell file",
	ArgsUsage: `<file>`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "window",
			Usage: "only list cells in the window x,y,width,height",
		},
	},
	Action: runCells,
}

var cmdImport = &cli.Command{
	Name:      "import",
	Usage:     "convert a list of 'x y' cell coordinates to macrocell text",
	ArgsUsage: `[<file>]`,
	Action:    runImport,
}

var cmdSave = &cli.Command{
	Name:      "save",
	Usage:     "store a macrocell file and print its content name",
	ArgsUsage: `<file>`,
	Flags:     storeFlags,
	Action:    runSave,
}

var cmdLoad = &cli.Command{
	Name:      "load",
	Usage:     "fetch a stored board by name and print it as macrocell text",
	ArgsUsage: `<name>`,
	Flags:     storeFlags,
	Action:    runLoad,
}

func runStat(cctx *cli.Context) error {
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide path to macrocell file")
	}
	board, err := readBoard(p)
	if err != nil {
		return err
	}
	fmt.Printf("level:      %d\n", board.Level())
	fmt.Printf("population: %d\n", board.AliveCells().Size())
	fmt.Printf("offset:     %v\n", board.Offset())
	fmt.Printf("extent:     %v\n", board.Extent())
	if bounds, ok := board.Bounds(); ok {
		fmt.Printf("bounds:     %v\n", bounds)
	}
	return nil
}

func runCells(cctx *cli.Context) error {
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide path to macrocell file")
	}
	board, err := readBoard(p)
	if err != nil {
		return err
	}
	window := board.Extent()
	if w := cctx.String("window"); w != "" {
		window, err = parseWindow(w)
		if err != nil {
			return err
		}
	}
	out := bufio.NewWriter(os.Stdout)
	for c := range board.CellsInWindow(window) {
		fmt.Fprintf(out, "%d %d\n", c.X, c.Y)
	}
	return out.Flush()
}

func runImport(cctx *cli.Context) error {
	in, err := openInput(cctx.Args().First())
	if err != nil {
		return err
	}
	defer in.Close()
	points, err := readPoints(in)
	if err != nil {
		return err
	}
	return macrocell.EncodeTo(os.Stdout, macrocell.FromGrid(points))
}

func runSave(cctx *cli.Context) error {
	ctx := context.Background()
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide path to macrocell file")
	}
	store, err := openStore(cctx)
	if err != nil {
		return err
	}
	board, err := readBoard(p)
	if err != nil {
		return err
	}
	name, err := store.Save(ctx, board)
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

func runLoad(cctx *cli.Context) error {
	ctx := context.Background()
	name := cctx.Args().First()
	if name == "" {
		return fmt.Errorf("need to provide the name of a stored board")
	}
	store, err := openStore(cctx)
	if err != nil {
		return err
	}
	board, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	return macrocell.EncodeTo(os.Stdout, board)
}
