package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/yanqian/weather-gateway/internal/domain/aggregator"
	"github.com/yanqian/weather-gateway/internal/infra/gatewayclient"
	"github.com/yanqian/weather-gateway/pkg/logger"
)

type CLI struct {
	EnvFile    kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to a .env file.'"`
	GatewayURL string                   `name:"gateway-url" env:"WEATHER_GATEWAY_URL" default:"http://localhost:10000" help:"Base URL of the weather gateway."`
	Days       int                      `env:"WEATHER_FORECAST_DAYS" default:"0" help:"Forecast days to request; 0 uses the gateway default."`
	Timeout    time.Duration            `env:"WEATHER_GATEWAY_TIMEOUT" default:"15s" help:"Per-request timeout."`
	JSON       bool                     `name:"json" help:"Print the combined result as JSON."`
	Location   []string                 `arg:"" help:"City name or \"lat,lon\" pair."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("weatherctl"),
		kong.Description("Look up current conditions and the forecast through the weather gateway."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kctx.FatalIfErrorf(cli.Run(ctx))
}

// Run performs one aggregated lookup and prints it.
func (c *CLI) Run(ctx context.Context) error {
	log := logger.NewTo(os.Stderr).With("component", "weatherctl")
	client := gatewayclient.NewClient(c.GatewayURL, c.Timeout)
	svc := aggregator.NewService(aggregator.Config{ForecastDays: c.Days}, client, log)

	result, err := svc.GetWeather(ctx, strings.Join(c.Location, " "))
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err = fmt.Fprint(os.Stdout, render(result))
	return err
}
