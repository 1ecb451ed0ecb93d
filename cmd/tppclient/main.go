// Command tppclient performs one signed gateway call described by a YAML
// request file and prints the response as YAML.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/vitalvas/tppclient/config"
	"github.com/vitalvas/tppclient/logging"
	"github.com/vitalvas/tppclient/tppclient"
	"gopkg.in/yaml.v3"
)

const usage = `Usage: tppclient [flags] --request <file>

Sends the request described in <file> ("-" for stdin) to the gateway and
prints the response.

Request file:
  method: POST
  path: /v1/payments/sepa-credit-transfers
  params:
    status: [booked]
  headers:
    x-request-id: [99391c7e-ad88-49ec-a2ad-99ddcb1f7721]
    psu-id: [PSU-1234]
  body: '{"instructedAmount":{"currency":"EUR","amount":"123.50"}}'

Flags:
`

type options struct {
	configFile  string
	requestFile string
	gatewayURL  string
	logLevel    string
	printConfig bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("tppclient", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVarP(&opts.configFile, "config", "c", "", "configuration file (default $"+config.ConfigFileEnvVar+" or "+config.DefaultConfigFile+")")
	fs.StringVarP(&opts.requestFile, "request", "r", "", "YAML request file, - for stdin")
	fs.StringVarP(&opts.gatewayURL, "gateway", "g", "", "gateway base URL, overrides gateway.url")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, overrides logging.level")
	fs.BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !opts.printConfig && opts.requestFile == "" {
		fs.Usage()
		return nil, errors.New("--request is required")
	}

	return opts, nil
}

func readRequest(path string, stdin io.Reader) (tppclient.Request, error) {
	var req tppclient.Request

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, err
		}
		defer f.Close()

		r = f
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("cannot decode request %s: %w", path, err)
	}

	return req, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	conf, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return err
	}

	if opts.gatewayURL != "" {
		conf.Gateway.URL = opts.gatewayURL
	}

	if opts.logLevel != "" {
		conf.Logging.Level = logging.Level(opts.logLevel)
	}

	if opts.printConfig {
		enc := yaml.NewEncoder(stdout)
		defer enc.Close()

		return enc.Encode(conf)
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	req, err := readRequest(opts.requestFile, stdin)
	if err != nil {
		return err
	}

	logger := logging.SetupLogger(conf.Logging.Level, "TPP Client", "Gateway")

	clientOpts := []tppclient.Option{
		tppclient.WithLogger(logger),
		tppclient.WithTimeout(conf.Gateway.Timeout),
	}

	if conf.Gateway.GenerateRequestID {
		clientOpts = append(clientOpts, tppclient.WithRequestIDGenerator(tppclient.GenerateUUIDv4))
	}

	client, err := tppclient.New(conf.Gateway.URL, conf.Certificates.CertParams(), clientOpts...)
	if err != nil {
		return err
	}

	resp, err := client.CallGateway(ctx, req)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(stdout)
	defer enc.Close()

	return enc.Encode(resp)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "tppclient:", err)
		os.Exit(1)
	}
}
