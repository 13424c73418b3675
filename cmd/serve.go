// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/openmeasure/mq-api/common"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/data/database"
	"github.com/openmeasure/mq-api/middleware"
	"github.com/openmeasure/mq-api/observability/opentelemetry"
	"github.com/openmeasure/mq-api/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mq-api server",
	Long:  `Run HTTP server that resolves measures against the market-data service`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if Trace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("could not close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("could not start trace")
			}
			defer trace.Stop()
		}

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		shutdownTracing, err := opentelemetry.Setup()
		if err != nil {
			log.Error().Err(err).Msg("could not setup tracing")
		} else {
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					log.Error().Err(err).Msg("could not shutdown tracing")
				}
			}()
		}

		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		if err := data.LoadAssetsFromDB(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not load asset registry")
		}

		manager := data.GetManagerInstance()
		if err := manager.RefreshTradingDays(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not load trading days")
		}
		log.Info().Msg("initialized data framework")

		app := fiber.New()

		// shutdown cleanly on interrupt
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		go func() {
			sig := <-quit
			log.Info().Str("Signal", sig.String()).Msg("received signal, shutting down")
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown app")
			}
		}()

		app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD",
		}))
		app.Use(middleware.NewLogger())
		app.Use(middleware.NewTracing())

		router.SetupRoutes(app)

		// refresh the trading calendar and asset registry each morning
		scheduler := gocron.NewScheduler(common.GetTimezone())
		scheduler.Every(1).Day().At("05:00").Do(func() {
			ctx := context.Background()
			if err := manager.RefreshTradingDays(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled trading day refresh failed")
			}
			if err := data.LoadAssetsFromDB(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled asset refresh failed")
			}
		})
		scheduler.StartAsync()

		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("could not start server")
		}
	},
}
