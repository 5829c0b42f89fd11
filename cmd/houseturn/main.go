// houseturn is the CLI front end for the turn-resolution engine: it
// loads a saved game, applies one turn's worth of command packets, and
// writes the resulting state back to the local save store.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jessevdk/go-flags"

	"houseturn/internal/combat"
	"houseturn/internal/config"
	"houseturn/internal/engine"
	"houseturn/internal/ident"
	"houseturn/internal/model"
	"houseturn/pkg/gamestore"
	"houseturn/pkg/logger"
)

// globalOptions carries the flags common to every subcommand, in the
// shape neper-stars-houston's houston CLI registers them on its parser.
type globalOptions struct {
	Store      string `long:"store" description:"Path to the local save store" default:"houseturn.db"`
	ConfigFile string `long:"config" description:"Configuration file overriding engine defaults"`
	Version    func() `long:"version" description:"Print the version and exit"`
}

var globals globalOptions

var log logger.Logger

func main() {
	globals.Version = func() {
		fmt.Println("houseturn 0.1.0")
		os.Exit(0)
	}

	log = logger.NewStdLogger("local", "localhost")
	defer func() {
		if err := recover(); err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("crashed after error: %v (stack: %s)", err, stack))
		}
		log.Release()
	}()

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "houseturn"
	parser.LongDescription = "Deterministic turn resolution for a houseturn game."

	addStartCommand(parser)
	addResolveCommand(parser)
	addStatusCommand(parser)
	addStopCommand(parser)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			if flagsErr.Type == flags.ErrCommandRequired {
				parser.WriteHelp(os.Stderr)
				os.Exit(1)
			}
		}

		var cfgErr *engine.ConfigError
		if asConfigError(err, &cfgErr) {
			log.Trace(logger.Error, "main", cfgErr.Error())
			os.Exit(2)
		}

		log.Trace(logger.Error, "main", err.Error())
		os.Exit(1)
	}
}

func asConfigError(err error, target **engine.ConfigError) bool {
	ce, ok := err.(*engine.ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}

func openStore() (*gamestore.Store, error) {
	return gamestore.Open(globals.Store)
}

func loadConfig() (config.Config, error) {
	return config.Load(globals.ConfigFile)
}

// startCommand creates a new, empty game under an id.
type startCommand struct {
	Args struct {
		GameID string `positional-arg-name:"game-id" required:"true"`
	} `positional-args:"yes"`
}

func addStartCommand(parser *flags.Parser) {
	parser.AddCommand("start", "Create a new game", "Creates a new, empty game under the given id.", &startCommand{})
}

func (c *startCommand) Execute(args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	state := model.NewGameState()
	if err := store.Save(c.Args.GameID, state); err != nil {
		return fmt.Errorf("saving new game: %w", err)
	}

	log.Trace(logger.Info, "start", fmt.Sprintf("created game %s", c.Args.GameID))
	return nil
}

// resolveCommand applies one turn to a saved game.
type resolveCommand struct {
	Packets string `long:"packets" description:"Path to a JSON file of house command packets keyed by house id" required:"true"`
	Seed    uint64 `long:"seed" description:"RNG seed for this turn" default:"1"`
	Args    struct {
		GameID string `positional-arg-name:"game-id" required:"true"`
	} `positional-args:"yes"`
}

func addResolveCommand(parser *flags.Parser) {
	parser.AddCommand("resolve", "Resolve one turn", "Applies one turn's command packets to a saved game and persists the result.", &resolveCommand{})
}

func (c *resolveCommand) Execute(args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	state, err := store.Load(c.Args.GameID)
	if err != nil {
		return fmt.Errorf("loading game %s: %w", c.Args.GameID, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return &engine.ConfigError{Table: "engine config", Cause: err}
	}

	raw, err := os.ReadFile(c.Packets)
	if err != nil {
		return fmt.Errorf("reading packets: %w", err)
	}
	var packets map[ident.HouseId]model.CommandPacket
	if err := json.Unmarshal(raw, &packets); err != nil {
		return fmt.Errorf("parsing packets: %w", err)
	}

	newState, events, reports := engine.Advance(cfg, state, packets, c.Seed, combat.ReferenceResolver{})

	if err := store.Save(c.Args.GameID, newState); err != nil {
		return fmt.Errorf("saving resolved game: %w", err)
	}

	log.Trace(logger.Info, "resolve", fmt.Sprintf("game %s advanced to turn %d, %d events, %d combat reports",
		c.Args.GameID, newState.Turn, len(events.All()), len(reports)))
	return nil
}

// statusCommand prints the currently saved turn number for a game.
type statusCommand struct {
	Args struct {
		GameID string `positional-arg-name:"game-id" required:"true"`
	} `positional-args:"yes"`
}

func addStatusCommand(parser *flags.Parser) {
	parser.AddCommand("status", "Show a game's status", "Prints the current turn number and house count for a saved game.", &statusCommand{})
}

func (c *statusCommand) Execute(args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	state, err := store.Load(c.Args.GameID)
	if err != nil {
		return fmt.Errorf("loading game %s: %w", c.Args.GameID, err)
	}

	fmt.Printf("game %s: turn %d, %d houses, %d colonies, %d fleets\n",
		c.Args.GameID, state.Turn, len(state.Houses), len(state.Colonies), len(state.Fleets))
	return nil
}

// stopCommand removes a game from the store.
type stopCommand struct {
	Args struct {
		GameID string `positional-arg-name:"game-id" required:"true"`
	} `positional-args:"yes"`
}

func addStopCommand(parser *flags.Parser) {
	parser.AddCommand("stop", "Delete a game", "Removes a saved game from the store permanently.", &stopCommand{})
}

func (c *stopCommand) Execute(args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.Delete(c.Args.GameID); err != nil {
		return fmt.Errorf("deleting game %s: %w", c.Args.GameID, err)
	}

	log.Trace(logger.Info, "stop", fmt.Sprintf("deleted game %s", c.Args.GameID))
	return nil
}
