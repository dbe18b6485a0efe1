// Command pelicandemo is a tiny MiniLang type checker that exercises the
// three pelican packages end to end: layeredmap as the type environment,
// unification to solve MiniLang's Hindley-Milner-shaped type constraints
// (monomorphically — no let-generalization), and substitution to compute a
// second, independent trait-like property (Comparable) over the same AST.
//
// Usage:
//
//	pelicandemo "let id = fn x => x in id(42)"
//	pelicandemo -file program.ml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	file := flag.String("file", "", "path to a MiniLang source file (default: read the program from the first non-flag argument)")
	flag.Parse()

	source, err := loadSource(*file, flag.Args())
	if err != nil {
		log.Fatalf("pelicandemo: %v", err)
	}

	program, err := parseSource(source)
	if err != nil {
		log.Fatalf("pelicandemo: parse error: %v", err)
	}

	if program.Expression == nil {
		fmt.Println("(empty program)")
		return
	}

	fmt.Printf("source: %s\n", program.String())

	typ, err := runInference(program)
	if err != nil {
		log.Fatalf("pelicandemo: %v", err)
	}
	fmt.Printf("type:   %s\n", typ.String())

	comparable, err := runComparablePass(program)
	if err != nil {
		log.Fatalf("pelicandemo: comparable trait: %v", err)
	}
	fmt.Printf("comparable: %t\n", comparable)
}

func loadSource(file string, args []string) (string, error) {
	if file != "" {
		contents, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(contents), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", fmt.Errorf("no source given: pass MiniLang code as an argument or -file path/to/program.ml")
}
