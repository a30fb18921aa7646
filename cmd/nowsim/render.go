package main

import (
	"fmt"

	"nowmarket/internal/market"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	gain    = color.New(color.FgGreen)
	loss    = color.New(color.FgRed)
	neutral = color.New(color.FgHiWhite)
)

func renderSnapshot(snap market.Snapshot) {
	accent.Printf("NOW Market  day %d  %02d:%02d  tick %d\n",
		snap.Clock.Day, snap.Clock.Hour, snap.Clock.Minute, snap.Tick)
	neutral.Printf("%s (mood %.1f, %s)\n\n", snap.Status, snap.Mood, snap.MoodLabel)

	fmt.Printf("%-6s %-22s %10s %8s %8s %12s\n", "ID", "NAME", "PRICE", "CHANGE", "TREND", "VOLUME")
	for _, c := range snap.Companies {
		line := fmt.Sprintf("%-6s %-22s %10.2f %7.2f%% %8s %12d", c.ID, c.Name, c.CurrentPrice, c.PercentChange, c.Trending, c.Volume)
		switch c.Trending {
		case market.TrendUp:
			gain.Println(line)
		case market.TrendDown:
			loss.Println(line)
		default:
			neutral.Println(line)
		}
	}

	fmt.Println()
	for _, idx := range snap.Indices {
		fmt.Printf("%-6s %-22s %10.2f %7.2f%%\n", idx.ID, idx.Name, idx.CurrentValue, idx.PercentChange)
	}
	fmt.Printf("%-6s %-22s %10.2f %7.2f%%\n", "NOWA", "NOW Average", snap.NowAverage.CurrentValue, snap.NowAverage.PercentChange)

	if len(snap.News) > 0 {
		fmt.Println()
		accent.Println("Latest headlines")
		for i, item := range snap.News {
			if i >= 5 {
				break
			}
			fmt.Printf("  [%s] %s\n", item.Impact, item.Headline)
		}
	}
}

func renderCatalog(snap market.Snapshot) {
	accent.Println("Companies")
	fmt.Printf("%-6s %-22s %-12s %12s %14s\n", "ID", "NAME", "SECTOR", "PRICE", "SHARES")
	for _, c := range snap.Companies {
		fmt.Printf("%-6s %-22s %-12s %12.2f %14d\n", c.ID, c.Name, c.Sector, c.CurrentPrice, c.TotalShares)
	}
	fmt.Println()
	accent.Println("Indices")
	for _, idx := range snap.Indices {
		fmt.Printf("%-6s %-22s base %.0f\n", idx.ID, idx.Name, idx.CurrentValue)
	}
}
