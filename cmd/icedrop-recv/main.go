// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/xtaci/icedrop/session"
)

// VERSION is set at build time via -ldflags.
var VERSION = "SELFBUILD"

func checkError(err error) {
	if err != nil {
		color.Red("%+v", err)
		os.Exit(-1)
	}
}

func main() {
	myApp := cli.NewApp()
	myApp.Name = "icedrop-recv"
	myApp.Usage = "icedrop file receiver"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "listen,l",
			Value: ":8080",
			Usage: "listen address",
		},
		cli.StringFlag{
			Name:  "outdir",
			Value: ".",
			Usage: "directory received files are written to",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from JSON file, which will override the command line arguments",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file to output, default goes to stderr",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress non-essential output",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		cfg := session.ServerConfig{
			Listen: c.String("listen"),
			OutDir: c.String("outdir"),
		}
		cfg.Log = c.String("log")
		cfg.Quiet = c.Bool("quiet")

		if conf := c.String("c"); conf != "" {
			checkError(session.ParseJSONConfig(&cfg, conf))
		}

		var logger *log.Logger
		if cfg.Log != "" {
			f, err := os.OpenFile(cfg.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			checkError(err)
			logger = log.New(f, "", log.LstdFlags)
		} else {
			logger = log.New(os.Stderr, "", log.LstdFlags)
		}

		if !cfg.Quiet {
			logger.Println("version:", VERSION)
			logger.Println("listening on:", cfg.Listen)
			logger.Println("outdir:", cfg.OutDir)
		}

		srv, err := session.NewServer(cfg.Listen, cfg.OutDir, session.WithLogger(logger))
		checkError(err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		go func() {
			<-sigCh
			cancel()
		}()

		return srv.Run(ctx)
	}
	checkError(myApp.Run(os.Args))
}
