package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arilahde/comicscan-bot/internal/comics"
	"github.com/arilahde/comicscan-bot/internal/grading"
	"github.com/arilahde/comicscan-bot/internal/listing"
)

// gen-listing renders seller listing text from a comic record. The record
// is read as JSON from a file or stdin, in the same shape lookup-comic
// -json prints.
func main() {
	input := flag.String("in", "-", "Comic JSON file, - for stdin")
	grade := flag.String("grade", string(grading.DefaultGrade), "Condition grade")
	price := flag.Float64("price", 0, "Asking price")
	flag.Parse()

	var r io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	var comic comics.Comic
	if err := json.NewDecoder(r).Decode(&comic); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid comic JSON: %v\n", err)
		os.Exit(1)
	}

	g := grading.Grade(*grade)
	if !grading.Valid(g) {
		fmt.Fprintf(os.Stderr, "Error: unknown grade %q\n", *grade)
		os.Exit(1)
	}

	fmt.Println(listing.Generate(&comic, g, *price))
}
