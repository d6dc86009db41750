package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-formschema/pkg/prompt"
	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := &App{
		cfg:    cfg,
		out:    os.Stdout,
		errOut: os.Stderr,
		driver: prompt.NewSurveyDriver(),
	}
	if err := app.Command().Execute(); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		var verr *schemamodel.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Messages() {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
