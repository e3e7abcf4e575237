package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/ads-advisor/internal/advisor"
	"github.com/iwvelando/ads-advisor/internal/config"
	"github.com/iwvelando/ads-advisor/internal/logging"
	"github.com/iwvelando/ads-advisor/pkg/constants"
	"github.com/iwvelando/ads-advisor/pkg/output"
	"github.com/iwvelando/ads-advisor/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	csvTable := flag.String("csv-table", "products", "table written in csv mode: products, kpis")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	report, err := advisor.EvaluateConfiguration(logger, *conf)
	if err != nil {
		logger.Fatal("failed to evaluate products",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, report)
	case constants.OutputFormatCSV:
		switch *csvTable {
		case "products":
			err = output.CsvFormat(os.Stdout, report)
		case "kpis":
			err = output.KpiCsvFormat(os.Stdout, report.KPIs)
		default:
			err = fmt.Errorf("expected csv table of products or kpis, got %q", *csvTable)
		}
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
