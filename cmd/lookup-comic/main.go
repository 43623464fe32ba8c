package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/arilahde/comicscan-bot/internal/metron"
)

func main() {
	title := flag.String("title", "", "Series title")
	issue := flag.String("issue", "1", "Issue number")
	facts := flag.Bool("facts", false, "Also print fun facts")
	rawJSON := flag.Bool("json", false, "Output raw JSON only")
	flag.Parse()

	if *title == "" {
		fmt.Fprintln(os.Stderr, "Usage: lookup-comic -title <title> [-issue <n>] [-facts] [-json]")
		os.Exit(1)
	}

	client := metron.NewClient(metron.ClientOpts{Auth: os.Getenv("METRON_AUTH")})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	comic, err := client.LookupComic(ctx, *title, *issue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *rawJSON {
		out, _ := json.MarshalIndent(comic, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Printf("%s #%s (%s, %s)\n", comic.Title, comic.IssueNumber, comic.Publisher, comic.PublishDate)
		fmt.Printf("Pages: %d\n", comic.PageCount)
		if len(comic.Writers) > 0 {
			fmt.Printf("Writers: %v\n", comic.Writers)
		}
		if comic.Description != "" {
			fmt.Printf("\n%s\n", comic.Description)
		}
	}

	if *facts {
		id, err := strconv.Atoi(comic.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: comic has no numeric id\n")
			os.Exit(1)
		}
		for _, fact := range client.FunFacts(ctx, id) {
			fmt.Printf("• %s\n", fact)
		}
	}
}
