// Command hatsim plays a headless session with stand-in microgames and
// reports which games the hat drew, the stages between them, and how speed
// and difficulty moved.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"

	_ "github.com/itzKiwiSky/KAPLAYware-sub000/games"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/prefabs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/script"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

func main() {
	rounds := flag.Int("rounds", 30, "rounds to simulate")
	seed := flag.Int64("seed", 1, "random seed for the hat and the random policy")
	policyName := flag.String("policy", "random", "outcome policy: win, lose, alternate, random")
	winRate := flag.Float64("winrate", 0.75, "win probability for the random policy")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	copyOut := flag.Bool("copy", false, "also copy the report to the clipboard")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	policy, err := policyByName(*policyName, *winRate, rand.New(rand.NewSource(*seed+1)))
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	cfg := ware.DefaultConfig()
	if data, err := prefabs.Load("ware.yaml"); err == nil {
		if cfg, err = ware.ParseConfig(data); err != nil {
			log.Fatal().Err(err).Msg("ware.yaml")
		}
	}

	games := microgame.Default().All()
	scripted, errs := script.LoadDir(prefabs.FS(), log.Logger)
	for _, err := range errs {
		log.Warn().Err(err).Msg("scripted microgame skipped")
	}
	games = append(games, scripted...)

	rep, err := Simulate(games, cfg, *rounds, *seed, policy)
	if err != nil {
		log.Fatal().Err(err).Msg("simulate")
	}

	var buf bytes.Buffer
	if *asJSON {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	} else {
		err = rep.Write(&buf)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("report")
	}
	if _, err := io.Copy(os.Stdout, bytes.NewReader(buf.Bytes())); err != nil {
		log.Fatal().Err(err).Send()
	}

	if *copyOut {
		if err := clipboard.Init(); err != nil {
			log.Fatal().Err(err).Msg("clipboard")
		}
		clipboard.Write(clipboard.FmtText, buf.Bytes())
	}
}
