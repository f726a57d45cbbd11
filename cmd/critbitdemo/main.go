// Command critbitdemo builds a crit-bit tree from key=value arguments
// and prints the entries back out in ascending key order.
//
// Usage:
//
//	critbitdemo 30000=bid-A 30500=bid-B 29500=bid-C
//
// If no arguments are given it walks a handful of built-in price
// ticks instead, so the binary is runnable with no setup.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"critbit/pkg/critbit"
)

func main() {
	entries, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "critbitdemo: %v\n", err)
		os.Exit(1)
	}

	tr := critbit.New[string]()
	for _, e := range entries {
		if _, err := tr.Insert(e.key, e.value); err != nil {
			fmt.Fprintf(os.Stderr, "critbitdemo: insert %d: %v\n", e.key, err)
			os.Exit(1)
		}
	}

	if tr.IsEmpty() {
		fmt.Println("(empty)")
		return
	}

	key, _, err := tr.MinLeaf()
	if err != nil {
		fmt.Fprintf(os.Stderr, "critbitdemo: %v\n", err)
		os.Exit(1)
	}
	for {
		value, err := tr.BorrowLeafByKey(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "critbitdemo: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d\t%s\n", key, *value)

		next, idx, err := tr.NextLeaf(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "critbitdemo: %v\n", err)
			os.Exit(1)
		}
		if idx == critbit.Partition {
			break
		}
		key = next
	}
}

type entry struct {
	key   uint64
	value string
}

func parseArgs(args []string) ([]entry, error) {
	if len(args) == 0 {
		return []entry{
			{30000, "bid-A"},
			{30500, "bid-B"},
			{29500, "bid-C"},
			{31000, "ask-A"},
		}, nil
	}
	entries := make([]entry, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("malformed argument %q, want key=value", arg)
		}
		key, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad key %q: %w", k, err)
		}
		entries = append(entries, entry{key: key, value: v})
	}
	return entries, nil
}
