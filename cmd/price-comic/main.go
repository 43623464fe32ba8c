package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/arilahde/comicscan-bot/internal/pricing"
)

func main() {
	title := flag.String("title", "", "Series title")
	issue := flag.String("issue", "1", "Issue number")
	source := flag.String("source", "pricecharting", "Pricing source: pricecharting, gocollect or mock")
	history := flag.Int("history", 0, "Also print a mock price history over this many days")
	rawJSON := flag.Bool("json", false, "Output raw JSON only")
	flag.Parse()

	if *title == "" {
		fmt.Fprintln(os.Stderr, "Usage: price-comic -title <title> [-issue <n>] [-source <s>] [-history <days>] [-json]")
		os.Exit(1)
	}

	synthetic := pricing.NewSynthetic(rand.New(rand.NewSource(time.Now().UnixNano())))

	var prices pricing.Source
	switch *source {
	case "pricecharting":
		prices = pricing.NewPriceChartingClient(pricing.PriceChartingOpts{
			Token: os.Getenv("PRICECHARTING_TOKEN"),
		}, synthetic)
	case "gocollect":
		prices = pricing.NewGoCollectClient(pricing.GoCollectOpts{}, synthetic)
	case "mock":
		prices = synthetic
	default:
		fmt.Fprintf(os.Stderr, "Unknown source %q\n", *source)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	record := prices.LookupPricing(ctx, *title, *issue)

	if *rawJSON {
		out, _ := json.MarshalIndent(record, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Printf("%s #%s (%s)\n", record.Title, record.IssueNumber, record.Source)
		for _, p := range record.Prices {
			fmt.Printf("  %-22s $%.2f\n", p.Grade, p.Price)
		}
		fmt.Printf("Average $%.2f, range $%.2f to $%.2f\n",
			record.AveragePrice, record.LowestPrice, record.HighestPrice)
	}

	if *history > 0 {
		for _, point := range synthetic.History(*title, *issue, *history) {
			fmt.Printf("%s  $%.2f\n", point.Date, point.Price)
		}
	}
}
