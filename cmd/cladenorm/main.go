// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Cladenorm is a tool to measure distances in gene trees
// normalized by the size of a reference clade.
package main

import (
	"github.com/js-arias/cladenorm/cmd/cladenorm/add"
	"github.com/js-arias/cladenorm/cmd/cladenorm/ages"
	"github.com/js-arias/cladenorm/cmd/cladenorm/nodes"
	"github.com/js-arias/cladenorm/cmd/cladenorm/pairs"
	"github.com/js-arias/cladenorm/cmd/cladenorm/prj"
	"github.com/js-arias/cladenorm/cmd/cladenorm/stats"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "cladenorm <command> [<argument>...]",
	Short: "a tool for clade-normalized gene tree distances",
}

func init() {
	app.Add(add.Command)
	app.Add(prj.Command)
	app.Add(ages.Command)
	app.Add(stats.Command)
	app.Add(pairs.Command)
	app.Add(nodes.Command)
}

func main() {
	app.Main()
}
