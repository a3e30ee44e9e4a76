// Command reconcile checks an extracted statement JSON file for balance
// inconsistencies and prints every flag found. It exits non-zero when the
// statement does not reconcile, so it can gate batch imports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jerusan/FinSight/internal/domain"
	"github.com/jerusan/FinSight/internal/reconcile"
)

func main() {
	var (
		file    = flag.String("file", "", "path to a statement JSON file")
		asJSON  = flag.Bool("json", false, "print flags as JSON instead of text")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -file statement.json [-json]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", *file, err)
		os.Exit(2)
	}

	var stmt domain.BankStatement
	if err := json.Unmarshal(data, &stmt); err != nil {
		fmt.Fprintf(os.Stderr, "parsing %s: %v\n", *file, err)
		os.Exit(2)
	}

	flagged := reconcile.FlagInconsistencies(stmt)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(flagged); err != nil {
			fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
			os.Exit(2)
		}
	} else {
		if len(flagged) == 0 {
			fmt.Printf("%s: statement reconciles (%d transactions)\n", *file, len(stmt.Transactions))
		}
		for _, f := range flagged {
			fmt.Printf("row %d: %s\n", f.Index, f.Issue)
		}
	}

	if len(flagged) > 0 {
		os.Exit(1)
	}
}
