// Command genmatch writes a synthetic event log and lineup table to disk,
// for demos and local experimentation with the analysis pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/okian/harpastum/internal/matchgen"
)

func main() {
	var (
		eventsPath = flag.String("events", "events.json", "output path for the event table")
		lineupPath = flag.String("lineup", "lineup.json", "output path for the lineup table")
		team       = flag.String("team", "Harpastum FC", "home team name")
		passes     = flag.Int("passes", 300, "number of random passes to generate")
		subMinute  = flag.Int("sub-minute", 60, "minute of the home substitution (0 disables)")
		seed       = flag.Uint64("seed", 1, "generator seed")
	)
	flag.Parse()

	gen := matchgen.New(
		matchgen.WithTeams(*team, "Visitors"),
		matchgen.WithPassCount(*passes),
		matchgen.WithSubstitution(*subMinute),
		matchgen.WithSeed(*seed),
	)

	if err := writeJSON(*lineupPath, gen.Lineup()); err != nil {
		fmt.Fprintln(os.Stderr, "writing lineup:", err)
		os.Exit(1)
	}
	if err := writeJSON(*eventsPath, gen.Events()); err != nil {
		fmt.Fprintln(os.Stderr, "writing events:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s and %s (team %q)\n", *eventsPath, *lineupPath, *team)
}

func writeJSON(path string, v interface{}) error {
	raw, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
