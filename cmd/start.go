package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/covault/covault/core"
	"github.com/covault/covault/repo"
	"github.com/covault/covault/version"
	"github.com/fatih/color"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("CMD")

// Start is the main entry point for covault. The options to this
// command are the same as the covault node config options.
type Start struct {
	repo.Config
}

// Execute starts the covault node.
func (x *Start) Execute(args []string) error {
	cfg, err := repo.LoadConfig()
	if err != nil {
		return err
	}

	n, err := core.NewNode(cfg)
	if err != nil {
		return err
	}
	printSplashScreen()
	n.Start()
	log.Infof("Data directory: %s", n.Repo().DataDir())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	log.Info("Covault shutting down...")
	n.Stop()
	return nil
}

func printSplashScreen() {
	blue := color.New(color.FgBlue)
	white := color.New(color.FgWhite)

	white.Printf(`                           _ _   `)
	fmt.Println("")
	white.Printf(`  ___ _____   ____ _ _   _| | |_ `)
	fmt.Println("")
	white.Printf(` / __/ _ \ \ / / _' | | | | | __|`)
	fmt.Println("")
	white.Printf(`| (_| (_) \ V / (_| | |_| | | |_ `)
	fmt.Println("")
	blue.Printf(` \___\___/ \_/ \__,_|\__,_|_|\__|`)
	fmt.Println("")
	fmt.Println("")
	fmt.Println("covault v" + version.String())
}
